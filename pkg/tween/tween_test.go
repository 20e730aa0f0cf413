package tween

import (
	"math"
	"testing"

	"github.com/decker502/posetween/internal/keyframe"
)

const epsilon = 1e-9

func newChannel(kind keyframe.ChannelKind, samples ...keyframe.Sample) keyframe.Channel {
	return keyframe.Channel{Entity: "Arm", Kind: kind, Samples: samples}
}

// fixedEvaluator 按时间返回固定值，未登记的时间返回 live
type fixedEvaluator struct {
	values map[float64]float64
	live   float64
	calls  []float64
}

func (f *fixedEvaluator) Evaluate(ch keyframe.Channel, t float64) float64 {
	f.calls = append(f.calls, t)
	if v, ok := f.values[t]; ok {
		return v
	}
	return f.live
}

// TestFindNeighbors 测试前后关键帧查找
func TestFindNeighbors(t *testing.T) {
	// 故意乱序，引擎需要自行建立顺序
	ch := newChannel(keyframe.LocationX,
		keyframe.Sample{Time: 30, Value: 3},
		keyframe.Sample{Time: 10, Value: 1},
		keyframe.Sample{Time: 20, Value: 2},
	)

	tests := []struct {
		name    string
		time    float64
		prev    float64
		next    float64
		hasPrev bool
		hasNext bool
	}{
		{"两侧都有", 25, 20, 30, true, true},
		{"只有后一帧", 5, 0, 10, false, true},
		{"只有前一帧", 35, 30, 0, true, false},
		// Prev 严格小于 t：20 处的关键帧被排除，Prev 是 10 而不是缺失
		{"正好在关键帧上", 20, 10, 30, true, true},
		{"正好在第一帧上", 10, 0, 20, false, true},
		{"小数时间", 10.5, 10, 20, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FindNeighbors(ch, tt.time)
			if n.HasPrev != tt.hasPrev || n.HasNext != tt.hasNext {
				t.Fatalf("FindNeighbors(%v) presence = (%v, %v), want (%v, %v)",
					tt.time, n.HasPrev, n.HasNext, tt.hasPrev, tt.hasNext)
			}
			if n.HasPrev && n.Prev != tt.prev {
				t.Errorf("Prev = %v, want %v", n.Prev, tt.prev)
			}
			if n.HasNext && n.Next != tt.next {
				t.Errorf("Next = %v, want %v", n.Next, tt.next)
			}
		})
	}
}

// TestFindNeighbors_ExactMatchExcluded 测试恰好在关键帧上时该帧被排除
func TestFindNeighbors_ExactMatchExcluded(t *testing.T) {
	ch := newChannel(keyframe.LocationX,
		keyframe.Sample{Time: 20, Value: 2},
		keyframe.Sample{Time: 30, Value: 3},
	)

	n := FindNeighbors(ch, 20)
	if n.HasPrev {
		t.Errorf("Expected no prev, got %v", n.Prev)
	}
	if !n.HasNext || n.Next != 30 {
		t.Errorf("Expected next 30, got %+v", n)
	}
}

// TestNeighbors_Span 测试跨度计算
func TestNeighbors_Span(t *testing.T) {
	if got := (Neighbors{Prev: 1, Next: 10, HasPrev: true, HasNext: true}).Span(); got != 9 {
		t.Errorf("Span() = %v, want 9", got)
	}
	if got := (Neighbors{Prev: 1, HasPrev: true}).Span(); got != 0 {
		t.Errorf("Span() with one side = %v, want 0", got)
	}
}

// TestBlend_FactorBoundaries 测试两侧都有关键帧时 factor=0/1 的精确边界
func TestBlend_FactorBoundaries(t *testing.T) {
	values := []struct{ a, b float64 }{
		{0.1, 0.7},
		{-3.3, 12.9},
		{1e6, -1e-6},
		{0.3, 0.3},
	}

	for _, v := range values {
		ch := newChannel(keyframe.LocationX,
			keyframe.Sample{Time: 1, Value: v.a},
			keyframe.Sample{Time: 9, Value: v.b},
		)
		n := FindNeighbors(ch, 5)

		got, ok := Blend(ch, LinearEvaluator{}, n, 5, 0, nil)
		if !ok || got != v.a {
			t.Errorf("factor=0: got (%v, %v), want exactly %v", got, ok, v.a)
		}

		got, ok = Blend(ch, LinearEvaluator{}, n, 5, 1, nil)
		if !ok || got != v.b {
			t.Errorf("factor=1: got (%v, %v), want exactly %v", got, ok, v.b)
		}
	}
}

// TestBlend_Monotonic 测试混合值随 factor 单调变化
func TestBlend_Monotonic(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
	}{
		{"递增", 1.0, 3.0},
		{"递减", 2.5, -4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := newChannel(keyframe.RotationEulerY,
				keyframe.Sample{Time: 0, Value: tt.a},
				keyframe.Sample{Time: 100, Value: tt.b},
			)
			n := FindNeighbors(ch, 50)

			prev, _ := Blend(ch, LinearEvaluator{}, n, 50, 0, nil)
			for i := 1; i <= 100; i++ {
				f := float64(i) / 100
				got, ok := Blend(ch, LinearEvaluator{}, n, 50, f, nil)
				if !ok {
					t.Fatalf("factor=%v skipped", f)
				}
				if tt.a < tt.b && got < prev {
					t.Errorf("not non-decreasing at factor=%v: %v < %v", f, got, prev)
				}
				if tt.a > tt.b && got > prev {
					t.Errorf("not non-increasing at factor=%v: %v > %v", f, got, prev)
				}
				prev = got
			}
		})
	}
}

// TestBlend_ValueSpaceNotTimeSpace 测试 factor 与关键帧间距无关
func TestBlend_ValueSpaceNotTimeSpace(t *testing.T) {
	ch := newChannel(keyframe.LocationZ,
		keyframe.Sample{Time: 0, Value: 0},
		keyframe.Sample{Time: 1000, Value: 10},
	)

	// 当前时间靠近前一帧，但 factor=0.5 仍然给出中点
	n := FindNeighbors(ch, 1)
	got, _ := Blend(ch, LinearEvaluator{}, n, 1, 0.5, nil)
	if math.Abs(got-5) > epsilon {
		t.Errorf("Expected 5, got %v", got)
	}
}

// TestBlend_OneSided 测试只有一侧关键帧的情况
func TestBlend_OneSided(t *testing.T) {
	t.Run("只有前一帧使用实时值", func(t *testing.T) {
		ch := newChannel(keyframe.ScaleX, keyframe.Sample{Time: 10, Value: 1})
		eval := &fixedEvaluator{values: map[float64]float64{10: 1}, live: 2}

		got, ok := Blend(ch, eval, FindNeighbors(ch, 20), 20, 0.25, nil)
		if !ok || math.Abs(got-1.25) > epsilon {
			t.Errorf("Expected 1.25, got (%v, %v)", got, ok)
		}
	})

	t.Run("只有后一帧使用实时值", func(t *testing.T) {
		ch := newChannel(keyframe.ScaleX, keyframe.Sample{Time: 10, Value: 1})
		eval := &fixedEvaluator{values: map[float64]float64{10: 1}, live: 2}

		got, ok := Blend(ch, eval, FindNeighbors(ch, 0), 0, 0.25, nil)
		if !ok || math.Abs(got-1.75) > epsilon {
			t.Errorf("Expected 1.75, got (%v, %v)", got, ok)
		}
	})

	t.Run("只有后一帧使用基准值", func(t *testing.T) {
		ch := newChannel(keyframe.ScaleX, keyframe.Sample{Time: 10, Value: 4})
		eval := &fixedEvaluator{values: map[float64]float64{10: 4}, live: 100}
		baseline := 0.0

		got, ok := Blend(ch, eval, FindNeighbors(ch, 0), 0, 0.5, &baseline)
		if !ok || math.Abs(got-2) > epsilon {
			t.Errorf("Expected 2, got (%v, %v)", got, ok)
		}
	})
}

// TestBlend_BaselineOverridesLive 测试基准值覆盖实时求值
func TestBlend_BaselineOverridesLive(t *testing.T) {
	ch := newChannel(keyframe.LocationY, keyframe.Sample{Time: 1, Value: 1.0})
	baseline := 5.0

	for _, live := range []float64{-50, 0, 3, 1e9} {
		eval := &fixedEvaluator{values: map[float64]float64{1: 1.0}, live: live}
		got, ok := Blend(ch, eval, FindNeighbors(ch, 4), 4, 0.5, &baseline)
		if !ok || got != 3.0 {
			t.Errorf("live=%v: expected 3.0, got (%v, %v)", live, got, ok)
		}
		for _, call := range eval.calls {
			if call == 4 {
				t.Errorf("live=%v: current time should not be evaluated when baseline is supplied", live)
			}
		}
	}
}

// TestBlend_SkipEmptyChannel 测试空通道总是跳过
func TestBlend_SkipEmptyChannel(t *testing.T) {
	ch := newChannel(keyframe.RotationQuaternionW)

	for _, tm := range []float64{-10, 0, 5.5, 1000} {
		for _, f := range []float64{0, 0.3, 1} {
			if v, ok := Blend(ch, LinearEvaluator{}, FindNeighbors(ch, tm), tm, f, nil); ok {
				t.Errorf("time=%v factor=%v: expected skip, got %v", tm, f, v)
			}
		}
	}
}

// TestClampFactor 测试系数限制
func TestClampFactor(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"负数", -0.2, 0},
		{"超过1", 1.01, 1},
		{"范围内", 0.4, 0.4},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampFactor(tt.input); got != tt.expected {
				t.Errorf("ClampFactor(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}

	ch := newChannel(keyframe.LocationX,
		keyframe.Sample{Time: 0, Value: 2},
		keyframe.Sample{Time: 10, Value: 4},
	)
	got, _ := Blend(ch, LinearEvaluator{}, FindNeighbors(ch, 5), 5, 1.5, nil)
	if got != 4 {
		t.Errorf("factor 1.5 should clamp to 1, got %v", got)
	}
}

// TestBlendPose_EndToEnd 测试 Arm 的 rotation_euler_x 补间
func TestBlendPose_EndToEnd(t *testing.T) {
	channels := []keyframe.Channel{
		newChannel(keyframe.RotationEulerX,
			keyframe.Sample{Time: 1, Value: 0.0},
			keyframe.Sample{Time: 10, Value: 1.57},
		),
	}

	n := FindNeighbors(channels[0], 5)
	if !n.HasPrev || !n.HasNext || n.Prev != 1 || n.Next != 10 {
		t.Fatalf("Expected neighbors (1, 10), got %+v", n)
	}

	result := BlendPose(BlendRequest{Entity: "Arm", Time: 5, Factor: 0.4},
		channels, []keyframe.ChannelKind{keyframe.RotationEulerX}, LinearEvaluator{})

	got, ok := result[keyframe.RotationEulerX]
	if !ok {
		t.Fatal("rotation_euler_x missing from result")
	}
	if math.Abs(got-0.628) > epsilon {
		t.Errorf("Expected 0.628, got %v", got)
	}
}

// TestBlendPose_SkipAndFilter 测试跳过和实体过滤
func TestBlendPose_SkipAndFilter(t *testing.T) {
	channels := []keyframe.Channel{
		newChannel(keyframe.LocationX, keyframe.Sample{Time: 0, Value: 0}, keyframe.Sample{Time: 10, Value: 10}),
		newChannel(keyframe.LocationY),
		{Entity: "Leg", Kind: keyframe.LocationZ, Samples: []keyframe.Sample{{Time: 0, Value: 1}}},
	}

	result := BlendPose(BlendRequest{Entity: "Arm", Time: 5, Factor: 0.5}, channels,
		[]keyframe.ChannelKind{keyframe.LocationX, keyframe.LocationY, keyframe.LocationZ}, nil)

	if len(result) != 1 {
		t.Fatalf("Expected 1 result, got %d: %v", len(result), result)
	}
	if result[keyframe.LocationX] != 5 {
		t.Errorf("location_x = %v, want 5", result[keyframe.LocationX])
	}
	if _, ok := result.Vector(keyframe.GroupLocation); ok {
		t.Error("Vector should fail when a component was skipped")
	}

	// kinds 为空时使用实体全部通道
	all := BlendPose(BlendRequest{Entity: "Leg", Time: 5, Factor: 0.5}, channels, nil, nil)
	if len(all) != 1 {
		t.Errorf("Expected Leg location_z only, got %v", all)
	}
}

// TestBlendPose_Baseline 测试请求中的基准值按通道生效
func TestBlendPose_Baseline(t *testing.T) {
	channels := []keyframe.Channel{
		newChannel(keyframe.LocationX, keyframe.Sample{Time: 1, Value: 1}),
		newChannel(keyframe.LocationY, keyframe.Sample{Time: 1, Value: 1}),
	}

	req := BlendRequest{
		Entity:   "Arm",
		Time:     4,
		Factor:   0.5,
		Baseline: map[keyframe.ChannelKind]float64{keyframe.LocationX: 5},
	}
	result := BlendPose(req, channels, nil, LinearEvaluator{})

	if result[keyframe.LocationX] != 3 {
		t.Errorf("location_x with baseline = %v, want 3", result[keyframe.LocationX])
	}
	// 没有基准值时回退到实时求值（常量外推 = 1）
	if result[keyframe.LocationY] != 1 {
		t.Errorf("location_y without baseline = %v, want 1", result[keyframe.LocationY])
	}
}

// TestBlendPose_QuaternionComponentsIndependent 测试四元数分量独立计算
func TestBlendPose_QuaternionComponentsIndependent(t *testing.T) {
	kinds := keyframe.KindsForGroup(keyframe.GroupRotationQuaternion)
	starts := []float64{1, 0, 0, 0}
	ends := []float64{0.7071, 0.7071, 0, 0}

	var channels []keyframe.Channel
	for i, k := range kinds {
		channels = append(channels, newChannel(k,
			keyframe.Sample{Time: 0, Value: starts[i]},
			// 分量之间关键帧时间错开
			keyframe.Sample{Time: float64(8 + i), Value: ends[i]},
		))
	}

	req := BlendRequest{Entity: "Arm", Time: 4, Factor: 0.3}
	together := BlendPose(req, channels, kinds, LinearEvaluator{})
	vec, ok := together.Vector(keyframe.GroupRotationQuaternion)
	if !ok {
		t.Fatal("Expected complete quaternion vector")
	}

	for i, k := range kinds {
		alone := BlendPose(req, []keyframe.Channel{channels[i]}, []keyframe.ChannelKind{k}, LinearEvaluator{})
		if alone[k] != vec[i] {
			t.Errorf("%v: together=%v alone=%v", k, vec[i], alone[k])
		}
	}

	// 不做归一化
	if math.Abs(vec[0]-(0.7*1+0.3*0.7071)) > epsilon {
		t.Errorf("w = %v, want un-normalized lerp", vec[0])
	}
}

// TestBlendResult_Kinds 测试结果排序
func TestBlendResult_Kinds(t *testing.T) {
	r := BlendResult{keyframe.ScaleZ: 1, keyframe.LocationX: 2, keyframe.RotationEulerY: 3}
	kinds := r.Kinds()
	want := []keyframe.ChannelKind{keyframe.LocationX, keyframe.RotationEulerY, keyframe.ScaleZ}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Kinds()[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}
