package components

// SliderComponent 百分比滑动条组件
// 拖动滑块即为一次补间手势：按下时开始，松开时结束
type SliderComponent struct {
	// 滑动条尺寸
	SlotWidth  float64 // 滑槽宽度
	SlotHeight float64 // 滑槽高度

	// 当前值（0.0 - 1.0）
	Value float64

	// 标签文字
	Label string

	// 状态
	IsDragging bool // 是否正在拖动
	IsHovered  bool // 是否鼠标悬停

	// 回调函数
	OnDragStart   func(value float64) // 开始拖动（手势开始）时的回调
	OnValueChange func(value float64) // 值改变时的回调
	OnDragEnd     func(value float64) // 结束拖动（手势结束）时的回调
}
