// cmd/tween_preview/main.go
// 补间预览工具：拖动百分比滑块，实时查看骨骼通道曲线和补间结果
//
// 用法：
//   go run ./cmd/tween_preview --clip=data/clips/arm_wave.json
//
// 操作：
//   拖动滑块      补间（按下时捕获基准，松开时结束手势）
//   ← / →         上一帧 / 下一帧
//   Tab           切换骨骼
//   R             在当前帧记录关键帧
//   C             清除已存姿态
//   Space         切换"松开时自动记录"
//   Esc           退出

package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/decker502/posetween/internal/keyframe"
	"github.com/decker502/posetween/pkg/bridge"
	"github.com/decker502/posetween/pkg/components"
	"github.com/decker502/posetween/pkg/config"
	"github.com/decker502/posetween/pkg/ecs"
	"github.com/decker502/posetween/pkg/embedded"
	"github.com/decker502/posetween/pkg/entities"
	"github.com/decker502/posetween/pkg/game"
	"github.com/decker502/posetween/pkg/systems"
	"github.com/decker502/posetween/pkg/tween"
	"github.com/decker502/posetween/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	configPath = flag.String("config", "data/tween.yaml", "配置文件路径（不存在时使用默认配置）")
	clipPath   = flag.String("clip", "data/clips/arm_wave.json", "动作片段 JSON 文件路径")
)

const (
	screenWidth  = 960
	screenHeight = 600

	plotX      = 40.0
	plotY      = 60.0
	plotWidth  = 880.0
	plotHeight = 400.0
	curveSteps = 200

	sliderX      = 40.0
	sliderY      = 520.0
	sliderWidth  = 880.0
	sliderHeight = 24.0
)

var errQuit = errors.New("quit")

// PreviewGame 预览工具主结构
type PreviewGame struct {
	entityManager *ecs.EntityManager
	tweenSystem   *systems.TweenSystem
	sliderSystem  *systems.SliderSystem
	settings      *game.SettingsManager
	evaluator     tween.Evaluator

	bones    []ecs.EntityID
	selected int
	slider   ecs.EntityID

	// 片段时间范围（用于绘图和时间步进）
	startTime, endTime float64
}

// NewPreviewGame 创建预览实例
func NewPreviewGame(cfg *config.TweenConfig, clip *keyframe.Clip) (*PreviewGame, error) {
	storage := game.OpenStorage(cfg.Storage)
	baselines, _ := game.NewBaselineStore(storage)
	settings, _ := game.NewSettingsManager(storage)

	em := ecs.NewEntityManager()
	bones, err := entities.LoadClipEntities(em, clip, cfg.Tween.FrameOffset)
	if err != nil {
		return nil, err
	}
	if len(bones) == 0 {
		return nil, fmt.Errorf("clip '%s' has no bones", clip.Action)
	}

	// 用户偏好覆盖配置文件默认值
	prefs := settings.GetSettings()
	kinds, err := keyframe.ParseKinds(prefs.Groups)
	if err != nil {
		log.Printf("[Preview] Warning: Invalid saved groups %v: %v (using config)", prefs.Groups, err)
		kinds = cfg.ChannelKinds()
	}
	curve, ok := utils.LookupSliderCurve(prefs.SliderCurve)
	if !ok {
		curve, _ = utils.LookupSliderCurve(cfg.Tween.SliderCurve)
	}

	g := &PreviewGame{
		entityManager: em,
		settings:      settings,
		evaluator:     tween.NewEvaluator(prefs.Interpolation),
		bones:         bones,
		startTime:     float64(clip.FrameRange[0] + cfg.Tween.FrameOffset),
		endTime:       float64(clip.FrameRange[1] + cfg.Tween.FrameOffset),
	}
	if g.endTime <= g.startTime {
		g.endTime = g.startTime + 1
	}

	g.tweenSystem = systems.NewTweenSystem(em, baselines)
	g.tweenSystem.SetEvaluator(g.evaluator)
	g.tweenSystem.SetSliderCurve(curve)
	g.tweenSystem.SetKinds(kinds)
	g.tweenSystem.SetRecordOnRelease(prefs.RecordOnRelease)
	g.tweenSystem.SetFactor(prefs.LastFactor)

	if client, err := bridge.Connect(cfg.Bridge); err != nil {
		log.Printf("[Preview] Warning: %v (bridge disabled)", err)
	} else if client != nil {
		g.tweenSystem.SetPublisher(bridge.NewPublisher(client, cfg.Bridge))
	}

	g.sliderSystem = systems.NewSliderSystem(em)
	g.slider = entities.NewSliderEntity(em, sliderX, sliderY, sliderWidth, sliderHeight, "Tween", prefs.LastFactor,
		entities.SliderCallbacks{
			OnDragStart: func(float64) {
				g.tweenSystem.BeginGesture()
			},
			OnValueChange: func(v float64) {
				g.tweenSystem.SetFactor(v)
			},
			OnDragEnd: func(v float64) {
				g.tweenSystem.EndGesture()
				g.settings.SetLastFactor(v)
				if err := g.settings.Save(); err != nil {
					log.Printf("[Preview] Warning: Failed to save settings: %v", err)
				}
				if err := baselines.Save(); err != nil {
					log.Printf("[Preview] Warning: Failed to save baselines: %v", err)
				}
			},
		})

	g.setTime(g.startTime)
	return g, nil
}

// setTime 跳到指定帧，骨骼恢复为曲线在该帧的值
func (g *PreviewGame) setTime(t float64) {
	for _, id := range g.bones {
		anim, _ := ecs.GetComponent[*components.AnimationComponent](g.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](g.entityManager, id)
		for k, ch := range anim.Channels {
			transform.Set(k, g.evaluator.Evaluate(*ch, t))
		}
	}
	g.tweenSystem.SetTime(t)
}

// Update 更新逻辑
func (g *PreviewGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	// 拖动中不切换帧
	if !g.tweenSystem.IsGestureActive() {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) && g.tweenSystem.Time() > g.startTime {
			g.setTime(g.tweenSystem.Time() - 1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) && g.tweenSystem.Time() < g.endTime {
			g.setTime(g.tweenSystem.Time() + 1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.selected = (g.selected + 1) % len(g.bones)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.tweenSystem.Record()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.tweenSystem.ClearBaseline("")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		enabled := !g.settings.GetSettings().RecordOnRelease
		g.settings.SetRecordOnRelease(enabled)
		g.tweenSystem.SetRecordOnRelease(enabled)
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.sliderSystem.Update(dt)
	if g.tweenSystem.IsGestureActive() {
		g.tweenSystem.Update(dt)
	}
	return nil
}

// Draw 绘制曲线、当前姿态和滑块
func (g *PreviewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 28, A: 255})

	id := g.bones[g.selected]
	name, _ := ecs.GetComponent[*components.NameComponent](g.entityManager, id)
	anim, _ := ecs.GetComponent[*components.AnimationComponent](g.entityManager, id)
	transform, _ := ecs.GetComponent[*components.TransformComponent](g.entityManager, id)

	minV, maxV := g.valueRange(anim, transform)
	toX := func(t float64) float32 {
		return float32(plotX + (t-g.startTime)/(g.endTime-g.startTime)*plotWidth)
	}
	toY := func(v float64) float32 {
		return float32(plotY + plotHeight - (v-minV)/(maxV-minV)*plotHeight)
	}

	vector.StrokeRect(screen, plotX, plotY, plotWidth, plotHeight, 1, color.RGBA{R: 80, G: 80, B: 90, A: 255}, false)

	for i, k := range anim.Kinds() {
		ch := *anim.Channels[k]
		clr := utils.ChannelColor(k)

		prevT := g.startTime
		prevV := g.evaluator.Evaluate(ch, prevT)
		for step := 1; step <= curveSteps; step++ {
			t := g.startTime + (g.endTime-g.startTime)*float64(step)/curveSteps
			v := g.evaluator.Evaluate(ch, t)
			vector.StrokeLine(screen, toX(prevT), toY(prevV), toX(t), toY(v), 1.5, clr, true)
			prevT, prevV = t, v
		}

		for _, s := range ch.Sorted() {
			vector.DrawFilledRect(screen, toX(s.Time)-3, toY(s.Value)-3, 6, 6, clr, false)
		}

		// 当前姿态
		cur := transform.Get(k)
		vector.StrokeRect(screen, toX(g.tweenSystem.Time())-5, toY(cur)-5, 10, 10, 2, clr, false)

		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-22s %8.3f", k, cur), int(plotX)+8, int(plotY)+8+i*16)
	}

	timeX := toX(g.tweenSystem.Time())
	vector.StrokeLine(screen, timeX, plotY, timeX, plotY+plotHeight, 1, color.RGBA{R: 220, G: 220, B: 220, A: 160}, false)

	g.drawSlider(screen)

	header := fmt.Sprintf("%s  [%d/%d]   frame %.0f   factor %.3f   record-on-release %v",
		name.Name, g.selected+1, len(g.bones), g.tweenSystem.Time(), g.tweenSystem.Factor(),
		g.settings.GetSettings().RecordOnRelease)
	ebitenutil.DebugPrintAt(screen, header, int(plotX), 20)
	if kinds := anim.Kinds(); len(kinds) > 0 {
		n := tween.FindNeighbors(*anim.Channels[kinds[0]], g.tweenSystem.Time())
		if span := n.Span(); span > 0 {
			keys := fmt.Sprintf("keys %.0f .. %.0f   span %.0f", n.Prev, n.Next, span)
			ebitenutil.DebugPrintAt(screen, keys, int(plotX), 36)
		}
	}
	ebitenutil.DebugPrintAt(screen, "drag: tween  </>: frame  Tab: bone  R: record  C: clear pose  Space: auto-record", int(plotX), screenHeight-30)
}

func (g *PreviewGame) drawSlider(screen *ebiten.Image) {
	slider, ok := ecs.GetComponent[*components.SliderComponent](g.entityManager, g.slider)
	if !ok {
		return
	}

	fill := utils.FactorColor(g.tweenSystem.Factor())
	vector.DrawFilledRect(screen, sliderX, sliderY, float32(sliderWidth*slider.Value), sliderHeight, fill, false)

	border := color.RGBA{R: 140, G: 140, B: 150, A: 255}
	if slider.IsHovered || slider.IsDragging {
		border = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	}
	vector.StrokeRect(screen, sliderX, sliderY, sliderWidth, sliderHeight, 2, border, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %3.0f%%", slider.Label, slider.Value*100), int(sliderX)+6, int(sliderY)+5)
}

// valueRange 返回绘图的纵轴范围
func (g *PreviewGame) valueRange(anim *components.AnimationComponent, transform *components.TransformComponent) (float64, float64) {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for k, ch := range anim.Channels {
		for _, s := range ch.Samples {
			minV = math.Min(minV, s.Value)
			maxV = math.Max(maxV, s.Value)
		}
		minV = math.Min(minV, transform.Get(k))
		maxV = math.Max(maxV, transform.Get(k))
	}
	if math.IsInf(minV, 1) {
		return -1, 1
	}
	pad := (maxV - minV) * 0.1
	if pad == 0 {
		pad = 1
	}
	return minV - pad, maxV + pad
}

// Layout 返回逻辑屏幕尺寸
func (g *PreviewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()

	cfg := config.DefaultTweenConfig()
	if data, err := embedded.ReadFile(*configPath); err == nil {
		if cfg, err = config.ParseTweenConfig(data); err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}

	clipData, err := embedded.ReadFile(*clipPath)
	if err != nil {
		log.Fatalf("读取动作片段失败: %v", err)
	}
	clip, err := keyframe.ParseClip(clipData)
	if err != nil {
		log.Fatalf("解析动作片段失败: %v", err)
	}

	g, err := NewPreviewGame(cfg, clip)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("Pose Tween - %s", clip.Action))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
