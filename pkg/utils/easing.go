package utils

import (
	"sort"

	"github.com/fogleman/ease"
)

// Slider Curves (滑块响应曲线)
//
// 将滑块的线性位置 p ∈ [0, 1] 映射为补间百分比 ∈ [0, 1]，
// 让拖动在两端或中段更精细。只收录单调递增的曲线（不含 Back/Elastic/Bounce），
// 否则拖动滑块时补间值会来回摆动。
//
// 参考：https://easings.net/

// SliderCurve 滑块响应曲线
type SliderCurve func(p float64) float64

var sliderCurves = map[string]SliderCurve{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
}

// LookupSliderCurve 按名称查找曲线，空名称视为 "linear"
func LookupSliderCurve(name string) (SliderCurve, bool) {
	if name == "" {
		name = "linear"
	}
	c, ok := sliderCurves[name]
	return c, ok
}

// SliderCurveNames 返回所有曲线名称（已排序）
func SliderCurveNames() []string {
	names := make([]string, 0, len(sliderCurves))
	for name := range sliderCurves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplySliderCurve 对滑块位置应用曲线
// 输入先限制到 [0, 1]；两端精确返回 0 和 1，避免三角函数曲线的浮点误差。
// curve 为 nil 时按线性处理。
func ApplySliderCurve(curve SliderCurve, p float64) float64 {
	if !(p > 0) {
		return 0
	}
	if p >= 1 {
		return 1
	}
	if curve == nil {
		return p
	}
	return curve(p)
}
