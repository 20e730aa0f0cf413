package tween

import (
	"sort"

	"github.com/decker502/posetween/internal/keyframe"
)

// BlendRequest 一次姿态补间请求
type BlendRequest struct {
	Entity string  // 实体（骨骼/物体）名称
	Time   float64 // 当前时间（帧）
	Factor float64 // 混合系数 0.0 ~ 1.0

	// Baseline 该实体在手势开始时捕获的基准值，可为 nil
	// 不同实体之间不要共享同一个 map
	Baseline map[keyframe.ChannelKind]float64
}

// BlendResult 补间结果
// 被跳过的通道不在 map 中，调用方不应写回。
type BlendResult map[keyframe.ChannelKind]float64

// Kinds 返回结果中的通道类型（按声明顺序）
func (r BlendResult) Kinds() []keyframe.ChannelKind {
	kinds := make([]keyframe.ChannelKind, 0, len(r))
	for k := range r {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Vector 将一个属性组的分量重新组装为向量（按分量顺序）
// 任一分量被跳过时返回 false。四元数不做归一化。
func (r BlendResult) Vector(group string) ([]float64, bool) {
	kinds := keyframe.KindsForGroup(group)
	if len(kinds) == 0 {
		return nil, false
	}
	vec := make([]float64, len(kinds))
	for i, k := range kinds {
		v, ok := r[k]
		if !ok {
			return nil, false
		}
		vec[i] = v
	}
	return vec, true
}

// BlendPose 对实体的一组通道执行补间
//
// 参数：
//   - req: 补间请求
//   - channels: 通道集合（可包含其他实体的通道，会按 req.Entity 过滤）
//   - kinds: 需要补间的通道类型；为空时使用该实体拥有的全部通道
//   - eval: 通道求值器
//
// 返回：
//   - BlendResult: 每个未被跳过的通道的补间值
//
// 每个分量独立计算，分量之间没有耦合。
// 同一实体同一类型出现多个通道时，使用第一个。
func BlendPose(req BlendRequest, channels []keyframe.Channel, kinds []keyframe.ChannelKind, eval Evaluator) BlendResult {
	if eval == nil {
		eval = LinearEvaluator{}
	}

	owned := make(map[keyframe.ChannelKind]keyframe.Channel)
	var order []keyframe.ChannelKind
	for _, ch := range channels {
		if ch.Entity != req.Entity {
			continue
		}
		if _, dup := owned[ch.Kind]; dup {
			continue
		}
		owned[ch.Kind] = ch
		order = append(order, ch.Kind)
	}

	if len(kinds) == 0 {
		kinds = order
	}

	result := make(BlendResult, len(kinds))
	for _, k := range kinds {
		ch, ok := owned[k]
		if !ok {
			continue
		}

		var baseline *float64
		if v, ok := req.Baseline[k]; ok {
			baseline = &v
		}

		n := FindNeighbors(ch, req.Time)
		if v, ok := Blend(ch, eval, n, req.Time, req.Factor, baseline); ok {
			result[k] = v
		}
	}
	return result
}
