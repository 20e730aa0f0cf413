package components

import (
	"testing"

	"github.com/decker502/posetween/internal/keyframe"
)

// TestTransformComponent_RestValues 测试未设置通道的静止姿态值
func TestTransformComponent_RestValues(t *testing.T) {
	tc := NewTransformComponent()

	tests := []struct {
		kind     keyframe.ChannelKind
		expected float64
	}{
		{keyframe.LocationY, 0},
		{keyframe.RotationEulerZ, 0},
		{keyframe.RotationQuaternionW, 1},
		{keyframe.RotationQuaternionX, 0},
		{keyframe.ScaleX, 1},
		{keyframe.ScaleZ, 1},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tc.Get(tt.kind); got != tt.expected {
				t.Errorf("Get(%v) = %v, want %v", tt.kind, got, tt.expected)
			}
		})
	}

	quat := tc.Vector(keyframe.GroupRotationQuaternion)
	if len(quat) != 4 || quat[0] != 1 || quat[1] != 0 {
		t.Errorf("identity quaternion = %v, want [1 0 0 0]", quat)
	}
}

// TestTransformComponent_Set 测试设置当前值
func TestTransformComponent_Set(t *testing.T) {
	var tc TransformComponent // 零值也可用
	tc.Set(keyframe.ScaleY, 2.5)

	if got := tc.Get(keyframe.ScaleY); got != 2.5 {
		t.Errorf("Get(scale_y) = %v, want 2.5", got)
	}
	if got := tc.Vector(keyframe.GroupScale); got[0] != 1 || got[1] != 2.5 || got[2] != 1 {
		t.Errorf("Vector(scale) = %v, want [1 2.5 1]", got)
	}
}

// TestAnimationComponent 测试通道索引
func TestAnimationComponent(t *testing.T) {
	a := NewAnimationComponent([]keyframe.Channel{
		{Entity: "Arm", Kind: keyframe.ScaleX, Samples: []keyframe.Sample{{Time: 1, Value: 1}}},
		{Entity: "Arm", Kind: keyframe.LocationZ, Samples: []keyframe.Sample{{Time: 1, Value: 3}}},
		{Entity: "Arm", Kind: keyframe.ScaleX, Samples: []keyframe.Sample{{Time: 1, Value: 9}}},
	})

	kinds := a.Kinds()
	if len(kinds) != 2 || kinds[0] != keyframe.LocationZ || kinds[1] != keyframe.ScaleX {
		t.Errorf("Kinds() = %v, want [location_z scale_x]", kinds)
	}

	// 重复类型保留第一条
	if v := a.Channels[keyframe.ScaleX].Samples[0].Value; v != 1 {
		t.Errorf("duplicate kind should keep first channel, got value %v", v)
	}

	// ChannelList 返回副本，修改不影响组件
	list := a.ChannelList()
	list[0].Samples = nil
	if a.Channels[keyframe.LocationZ].Len() != 1 {
		t.Error("ChannelList should return copies")
	}
}
