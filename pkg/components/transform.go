package components

import "github.com/decker502/posetween/internal/keyframe"

// NameComponent 实体名称（骨骼名或物体名）
type NameComponent struct {
	Name string
}

// TransformComponent 实体当前（实时）姿态
// 未设置的通道使用静止姿态值：位置/欧拉角为 0，四元数为单位四元数，缩放为 1
type TransformComponent struct {
	Values map[keyframe.ChannelKind]float64
}

// NewTransformComponent 创建静止姿态的变换组件
func NewTransformComponent() *TransformComponent {
	return &TransformComponent{Values: make(map[keyframe.ChannelKind]float64)}
}

// RestValue 返回通道类型的静止姿态值
func RestValue(kind keyframe.ChannelKind) float64 {
	switch kind {
	case keyframe.RotationQuaternionW, keyframe.ScaleX, keyframe.ScaleY, keyframe.ScaleZ:
		return 1.0
	default:
		return 0.0
	}
}

// Get 获取通道当前值
func (t *TransformComponent) Get(kind keyframe.ChannelKind) float64 {
	if v, ok := t.Values[kind]; ok {
		return v
	}
	return RestValue(kind)
}

// Set 设置通道当前值
func (t *TransformComponent) Set(kind keyframe.ChannelKind, value float64) {
	if t.Values == nil {
		t.Values = make(map[keyframe.ChannelKind]float64)
	}
	t.Values[kind] = value
}

// Vector 按分量顺序读取属性组的当前值
func (t *TransformComponent) Vector(group string) []float64 {
	kinds := keyframe.KindsForGroup(group)
	vec := make([]float64, len(kinds))
	for i, k := range kinds {
		vec[i] = t.Get(k)
	}
	return vec
}
