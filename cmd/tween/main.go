// cmd/tween/main.go
// 命令行补间工具：在给定时间和百分比上计算骨骼姿态
//
// 用法：
//   go run ./cmd/tween --clip=data/clips/arm_wave.json --time=5 --factor=0.3
//   go run ./cmd/tween --clip=data/clips/arm_wave.json --time=5 --factor=0.3 --capture
//   go run ./cmd/tween --clear-baseline
//
// 基准姿态通过 gdata 持久化：--capture 在第一次调用时捕获当前姿态，
// 之后的调用复用同一基准，直到 --clear-baseline。

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

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
)

var (
	configPath    = flag.String("config", "data/tween.yaml", "配置文件路径（不存在时使用默认配置）")
	clipPath      = flag.String("clip", "", "动作片段 JSON 文件路径")
	bones         = flag.String("bones", "", "只处理这些骨骼（逗号分隔），为空表示全部")
	timeFlag      = flag.Float64("time", 0, "当前时间（帧）")
	factor        = flag.Float64("factor", -1, "补间百分比 0.0 ~ 1.0，缺省使用上次的值")
	channels      = flag.String("channels", "", "参与补间的属性组或通道（逗号分隔），覆盖配置")
	capture       = flag.Bool("capture", false, "为尚无基准的骨骼捕获当前姿态并保存")
	record        = flag.Bool("record", false, "把结果作为关键帧写入（并在发布消息中标记）")
	publish       = flag.Bool("publish", false, "通过 MQTT 桥接把结果发送给宿主")
	clearBaseline = flag.Bool("clear-baseline", false, "清除已保存的基准姿态后退出")
	verbose       = flag.Bool("verbose", false, "详细日志")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetFlags(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	storage := game.OpenStorage(cfg.Storage)
	baselines, _ := game.NewBaselineStore(storage)
	settings, _ := game.NewSettingsManager(storage)

	if *clearBaseline {
		for _, name := range baselines.Entities() {
			fmt.Printf("清除基准: %s\n", name)
		}
		baselines.ClearAll()
		if err := baselines.Save(); err != nil {
			log.Fatalf("清除基准失败: %v", err)
		}
		fmt.Println("已清除保存的基准姿态")
		return
	}

	if *clipPath == "" {
		fmt.Fprintln(os.Stderr, "用法: tween --clip=<动作片段.json> --time=<帧> --factor=<0~1>")
		fmt.Fprintf(os.Stderr, "内置示例片段: %s\n", strings.Join(embedded.Clips(), ", "))
		flag.PrintDefaults()
		os.Exit(2)
	}

	clipData, err := embedded.ReadFile(*clipPath)
	if err != nil {
		log.Fatalf("读取动作片段失败: %v", err)
	}
	clip, err := keyframe.ParseClip(clipData)
	if err != nil {
		log.Fatalf("解析动作片段失败: %v", err)
	}

	em := ecs.NewEntityManager()
	ids, err := entities.LoadClipEntities(em, clip, cfg.Tween.FrameOffset, splitList(*bones)...)
	if err != nil {
		log.Fatalf("加载骨骼失败: %v", err)
	}

	kinds := cfg.ChannelKinds()
	if *channels != "" {
		kinds, err = keyframe.ParseKinds(splitList(*channels))
		if err != nil {
			log.Fatalf("无效的通道: %v", err)
		}
	}

	curve, _ := utils.LookupSliderCurve(cfg.Tween.SliderCurve)
	evaluator := tween.NewEvaluator(cfg.Tween.Interpolation)

	// 宿主在当前帧显示的姿态即曲线在该时间的值
	setLivePose(em, ids, evaluator, *timeFlag)

	tweenSystem := systems.NewTweenSystem(em, baselines)
	tweenSystem.SetEvaluator(evaluator)
	tweenSystem.SetSliderCurve(curve)
	tweenSystem.SetKinds(kinds)
	tweenSystem.SetTime(*timeFlag)

	// 保存的基准只在捕获帧上生效
	for _, name := range baselines.Entities() {
		if at, _ := baselines.CapturedAt(name); at != *timeFlag {
			log.Printf("[tween] Baseline for '%s' was captured at frame %.2f, ignored at %.2f", name, at, *timeFlag)
		}
	}

	if *publish {
		client, err := bridge.Connect(cfg.Bridge)
		if err != nil {
			log.Fatalf("连接 MQTT 失败: %v", err)
		}
		if client == nil {
			log.Printf("[tween] Bridge disabled in config, --publish ignored")
		} else {
			defer client.Disconnect(250)
			tweenSystem.SetPublisher(bridge.NewPublisher(client, cfg.Bridge))
		}
	}

	percent := *factor
	if percent < 0 {
		percent = settings.GetSettings().LastFactor
	}

	if *capture {
		tweenSystem.BeginGesture()
	}
	tweenSystem.SetFactor(percent)
	tweenSystem.Apply(*record)
	tweenSystem.EndGesture()

	printPose(em, ids, tweenSystem, baselines)

	settings.SetLastFactor(percent)
	if err := settings.Save(); err != nil {
		log.Printf("警告: 保存设置失败: %v", err)
	}
	if *capture {
		if err := baselines.Save(); err != nil {
			log.Printf("警告: 保存基准失败: %v", err)
		}
	}
}

// loadConfig 加载配置文件，磁盘上不存在时使用嵌入的默认配置
func loadConfig(path string) (*config.TweenConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		log.Printf("[tween] Config %s not found, using defaults", path)
		return config.DefaultTweenConfig(), nil
	}
	return config.ParseTweenConfig(data)
}

// setLivePose 把实体当前姿态设为曲线在 t 处的值
func setLivePose(em *ecs.EntityManager, ids []ecs.EntityID, eval tween.Evaluator, t float64) {
	for _, id := range ids {
		anim, _ := ecs.GetComponent[*components.AnimationComponent](em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		for k, ch := range anim.Channels {
			transform.Set(k, eval.Evaluate(*ch, t))
		}
	}
}

func printPose(em *ecs.EntityManager, ids []ecs.EntityID, s *systems.TweenSystem, baselines *game.BaselineStore) {
	fmt.Printf("时间: %.2f  系数: %.3f\n", s.Time(), s.Factor())
	for _, id := range ids {
		name, _ := ecs.GetComponent[*components.NameComponent](em, id)
		anim, _ := ecs.GetComponent[*components.AnimationComponent](em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)

		at, hasBaseline := baselines.CapturedAt(name.Name)
		hasBaseline = hasBaseline && at == s.Time()

		fmt.Printf("\n[%s]\n", name.Name)
		for _, k := range anim.Kinds() {
			if v, ok := baselines.Get(name.Name, k); hasBaseline && ok {
				fmt.Printf("  %-24s %10.4f  (基准 %.4f)\n", k, transform.Get(k), v)
				continue
			}
			fmt.Printf("  %-24s %10.4f\n", k, transform.Get(k))
		}
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
