package systems

import (
	"github.com/decker502/posetween/pkg/components"
	"github.com/decker502/posetween/pkg/ecs"
	"github.com/decker502/posetween/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// SliderMouseInput 滑块系统鼠标输入接口
// 用于依赖注入，支持测试时 mock
type SliderMouseInput interface {
	CursorPosition() (int, int)
	IsMouseButtonPressed(button ebiten.MouseButton) bool
}

// ebitenSliderMouseInput Ebitengine 默认实现
type ebitenSliderMouseInput struct{}

func (e *ebitenSliderMouseInput) CursorPosition() (int, int) {
	return utils.GetPointerPosition()
}

func (e *ebitenSliderMouseInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	// 使用支持触摸的按下检测
	return utils.IsPointerPressed()
}

// defaultSliderMouseInput 默认鼠标输入实例
var defaultSliderMouseInput SliderMouseInput = &ebitenSliderMouseInput{}

// SliderSystem 滑块交互系统
// 负责处理百分比滑块的鼠标拖拽交互
//
// 职责：
//   - 检测鼠标是否在滑槽区域内
//   - 在滑槽内按下时开始拖拽并调用 OnDragStart（补间手势开始）
//   - 拖拽中把鼠标位置转换为 0.0~1.0 的 Value 并调用 OnValueChange
//   - 松开时调用 OnDragEnd（补间手势结束）
type SliderSystem struct {
	entityManager *ecs.EntityManager
	mouseInput    SliderMouseInput

	// 上一帧鼠标是否按下，用于区分"在滑槽内按下"和"按住后移入滑槽"
	wasPressed bool
}

// NewSliderSystem 创建滑块交互系统
func NewSliderSystem(em *ecs.EntityManager) *SliderSystem {
	return NewSliderSystemWithInput(em, defaultSliderMouseInput)
}

// NewSliderSystemWithInput 创建带自定义鼠标输入的滑块交互系统（用于测试）
func NewSliderSystemWithInput(em *ecs.EntityManager, input SliderMouseInput) *SliderSystem {
	return &SliderSystem{
		entityManager: em,
		mouseInput:    input,
	}
}

// Update 更新滑块交互状态
func (s *SliderSystem) Update(deltaTime float64) {
	mouseX, mouseY := s.mouseInput.CursorPosition()
	mousePressed := s.mouseInput.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := mousePressed && !s.wasPressed
	s.wasPressed = mousePressed

	entities := ecs.GetEntitiesWith2[*components.SliderComponent, *components.PositionComponent](s.entityManager)

	for _, entityID := range entities {
		slider, _ := ecs.GetComponent[*components.SliderComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)

		if slider == nil || pos == nil {
			continue
		}

		isInSlot := s.isMouseInSlot(float64(mouseX), float64(mouseY), pos.X, pos.Y, slider.SlotWidth, slider.SlotHeight)
		slider.IsHovered = isInSlot

		if !mousePressed {
			if slider.IsDragging {
				slider.IsDragging = false
				if slider.OnDragEnd != nil {
					slider.OnDragEnd(slider.Value)
				}
			}
			continue
		}

		if !slider.IsDragging {
			// 只有在滑槽内按下才开始拖拽
			if !justPressed || !isInSlot {
				continue
			}
			slider.IsDragging = true
			if slider.OnDragStart != nil {
				slider.OnDragStart(slider.Value)
			}
		}

		newValue := s.calculateValue(float64(mouseX), pos.X, slider.SlotWidth)
		if newValue < 0.0 {
			newValue = 0.0
		}
		if newValue > 1.0 {
			newValue = 1.0
		}

		if newValue != slider.Value {
			slider.Value = newValue
			if slider.OnValueChange != nil {
				slider.OnValueChange(newValue)
			}
		}
	}
}

// isMouseInSlot 检测鼠标是否在滑槽区域内
func (s *SliderSystem) isMouseInSlot(mouseX, mouseY, slotX, slotY, slotWidth, slotHeight float64) bool {
	return mouseX >= slotX &&
		mouseX <= slotX+slotWidth &&
		mouseY >= slotY &&
		mouseY <= slotY+slotHeight
}

// calculateValue 根据鼠标X坐标计算滑块值
func (s *SliderSystem) calculateValue(mouseX, slotX, slotWidth float64) float64 {
	if slotWidth <= 0 {
		return 0.0
	}
	return (mouseX - slotX) / slotWidth
}
