// Package tween 实现姿态补间（Tween）引擎
//
// 给定实体的若干标量动画通道、当前时间和 0~1 的混合系数，
// 为每个通道找到前一个/后一个关键帧，并在两者的求值结果之间线性混合；
// 只有一侧关键帧时，向调用方捕获的基准值（Baseline）或当前实时求值混合；
// 两侧都没有关键帧时跳过该通道。
//
// 引擎是纯函数：不修改通道数据，不持有跨调用状态，可并发调用。
// 写回场景、插入关键帧、基准值的捕获与清除均由调用方负责。
package tween

import (
	"sort"

	"github.com/decker502/posetween/internal/keyframe"
)

// Evaluator 通道求值接口
// 在任意时间（不一定是关键帧时间）对通道的底层曲线采样。
// 对应宿主程序的曲线求值能力，假定连续且正确。
type Evaluator interface {
	Evaluate(ch keyframe.Channel, t float64) float64
}

// EvaluatorFunc 将普通函数适配为 Evaluator
type EvaluatorFunc func(ch keyframe.Channel, t float64) float64

// Evaluate 实现 Evaluator 接口
func (f EvaluatorFunc) Evaluate(ch keyframe.Channel, t float64) float64 {
	return f(ch, t)
}

// LinearEvaluator 分段线性求值器
//
// 规则：
//   - 关键帧之间线性插值
//   - 第一个关键帧之前 / 最后一个关键帧之后保持端点值（常量外推）
//   - 空通道返回 0
type LinearEvaluator struct{}

// Evaluate 实现 Evaluator 接口
func (LinearEvaluator) Evaluate(ch keyframe.Channel, t float64) float64 {
	samples := ch.Sorted()
	if len(samples) == 0 {
		return 0
	}

	i, exact := search(samples, t)
	if exact {
		return samples[i].Value
	}
	if i == 0 {
		return samples[0].Value
	}
	if i == len(samples) {
		return samples[len(samples)-1].Value
	}

	a, b := samples[i-1], samples[i]
	u := (t - a.Time) / (b.Time - a.Time)
	return (1-u)*a.Value + u*b.Value
}

// ConstantEvaluator 阶梯求值器
// 保持前一个关键帧的值直到下一个关键帧（与宿主的 CONSTANT 插值模式一致），
// 第一个关键帧之前使用第一个关键帧的值。
type ConstantEvaluator struct{}

// Evaluate 实现 Evaluator 接口
func (ConstantEvaluator) Evaluate(ch keyframe.Channel, t float64) float64 {
	samples := ch.Sorted()
	if len(samples) == 0 {
		return 0
	}

	i, exact := search(samples, t)
	if exact {
		return samples[i].Value
	}
	if i == 0 {
		return samples[0].Value
	}
	return samples[i-1].Value
}

// search 返回第一个 Time >= t 的下标，以及该下标处是否正好等于 t
func search(samples []keyframe.Sample, t float64) (int, bool) {
	i := sort.Search(len(samples), func(i int) bool { return samples[i].Time >= t })
	return i, i < len(samples) && samples[i].Time == t
}

// NewEvaluator 按插值模式名称创建求值器
// 支持 "linear"（默认）和 "constant"；未知名称返回 LinearEvaluator。
func NewEvaluator(mode string) Evaluator {
	switch mode {
	case "constant":
		return ConstantEvaluator{}
	default:
		return LinearEvaluator{}
	}
}
