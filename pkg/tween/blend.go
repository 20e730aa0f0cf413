package tween

import (
	"math"

	"github.com/decker502/posetween/internal/keyframe"
)

// ClampFactor 将混合系数限制在 0.0 ~ 1.0 范围内
// 滑块 UI 抖动可能产生略微越界的值；NaN 视为 0。
func ClampFactor(factor float64) float64 {
	if math.IsNaN(factor) || factor < 0.0 {
		return 0.0
	}
	if factor > 1.0 {
		return 1.0
	}
	return factor
}

// mix 在值空间中混合 a 和 b
// 使用 (1-f)*a + f*b 的形式，保证 f=0 时精确返回 a，f=1 时精确返回 b。
func mix(a, b, factor float64) float64 {
	return (1-factor)*a + factor*b
}

// Blend 计算单个通道的补间值
//
// 参数：
//   - ch: 通道
//   - eval: 通道求值器
//   - n: FindNeighbors 的结果
//   - t: 当前时间
//   - factor: 混合系数（会被限制到 0~1）
//   - baseline: 调用方捕获的基准值，可为 nil
//
// 返回：
//   - float64: 补间值
//   - bool: false 表示跳过（两侧都没有关键帧）
//
// 只有一侧关键帧时，另一端使用 baseline；baseline 为 nil 时回退到 eval(t)。
// 注意：回退到实时求值时，如果调用方把结果写回后再次调用，
// 当前值会随输出漂移。交互拖动期间应由调用方在手势开始时捕获一次基准值。
func Blend(ch keyframe.Channel, eval Evaluator, n Neighbors, t, factor float64, baseline *float64) (float64, bool) {
	factor = ClampFactor(factor)

	current := func() float64 {
		if baseline != nil {
			return *baseline
		}
		return eval.Evaluate(ch, t)
	}

	switch {
	case n.HasPrev && n.HasNext:
		return mix(eval.Evaluate(ch, n.Prev), eval.Evaluate(ch, n.Next), factor), true
	case n.HasPrev:
		return mix(eval.Evaluate(ch, n.Prev), current(), factor), true
	case n.HasNext:
		return mix(current(), eval.Evaluate(ch, n.Next), factor), true
	default:
		return 0, false
	}
}
