package components

// PositionComponent 屏幕坐标（用于预览工具中的 UI 元素）
type PositionComponent struct {
	X, Y float64
}
