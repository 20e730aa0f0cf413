package utils

import (
	"image/color"

	"github.com/decker502/posetween/internal/keyframe"
	"github.com/lucasb-eyer/go-colorful"
)

// 每个属性组一个色相，组内分量用亮度区分
var groupHues = map[string]float64{
	keyframe.GroupLocation:           20,
	keyframe.GroupRotationEuler:      140,
	keyframe.GroupRotationQuaternion: 200,
	keyframe.GroupScale:              290,
}

var (
	factorStart = colorful.Hcl(250, 0.6, 0.45)
	factorEnd   = colorful.Hcl(40, 0.8, 0.75)
)

// ChannelColor 返回通道曲线的绘制颜色
func ChannelColor(kind keyframe.ChannelKind) color.RGBA {
	group, index := kind.Group()
	hue, ok := groupHues[group]
	if !ok {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	c := colorful.Hcl(hue, 0.5, 0.45+0.12*float64(index))
	return toRGBA(c)
}

// FactorColor 返回百分比对应的滑块填充颜色（在 HCL 空间中插值）
func FactorColor(factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return toRGBA(factorStart.BlendHcl(factorEnd, factor))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
