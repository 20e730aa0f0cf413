package entities

import (
	"github.com/decker502/posetween/pkg/components"
	"github.com/decker502/posetween/pkg/ecs"
)

// SliderCallbacks 百分比滑块回调
type SliderCallbacks struct {
	OnDragStart   func(value float64)
	OnValueChange func(value float64)
	OnDragEnd     func(value float64)
}

// NewSliderEntity 创建百分比滑块实体
//
// 参数:
//   - em: 实体管理器
//   - x, y: 滑槽左上角屏幕坐标
//   - width, height: 滑槽尺寸
//   - label: 标签文字
//   - value: 初始值（0.0 - 1.0）
//   - callbacks: 手势回调
func NewSliderEntity(em *ecs.EntityManager, x, y, width, height float64, label string, value float64, callbacks SliderCallbacks) ecs.EntityID {
	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(entityID, &components.SliderComponent{
		SlotWidth:     width,
		SlotHeight:    height,
		Value:         value,
		Label:         label,
		OnDragStart:   callbacks.OnDragStart,
		OnValueChange: callbacks.OnValueChange,
		OnDragEnd:     callbacks.OnDragEnd,
	})
	return entityID
}
