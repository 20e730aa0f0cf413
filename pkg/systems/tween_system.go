package systems

import (
	"log"

	"github.com/decker502/posetween/internal/keyframe"
	"github.com/decker502/posetween/pkg/components"
	"github.com/decker502/posetween/pkg/ecs"
	"github.com/decker502/posetween/pkg/game"
	"github.com/decker502/posetween/pkg/tween"
	"github.com/decker502/posetween/pkg/utils"
)

// PosePublisher 补间结果的外部接收方（例如 MQTT 桥接）
type PosePublisher interface {
	PublishPose(req tween.BlendRequest, result tween.BlendResult, record bool) error
}

// TweenSystem 姿态补间系统
//
// 对所有同时拥有 NameComponent、AnimationComponent 和 TransformComponent 的实体
// 执行补间，并把结果写回 TransformComponent。
//
// 手势流程：
//   - BeginGesture: 为尚无当前帧基准的实体捕获当前姿态
//   - SetFactor: 更新混合系数，下一次 Update 时重新计算
//   - EndGesture: 结束手势，开启 RecordOnRelease 时在当前时间插入关键帧
//
// 同一帧上的基准在多次手势之间保留，直到 ClearBaseline 被调用；
// 捕获于其他帧的基准不参与混合，下一次手势会重新捕获。
type TweenSystem struct {
	entityManager *ecs.EntityManager
	baselines     *game.BaselineStore

	evaluator tween.Evaluator
	curve     utils.SliderCurve
	kinds     []keyframe.ChannelKind
	publisher PosePublisher

	currentTime     float64
	rawFactor       float64
	factor          float64
	recordOnRelease bool

	gestureActive bool
	dirty         bool
}

// NewTweenSystem 创建补间系统
//
// 参数：
//   - em: 实体管理器
//   - baselines: 基准姿态存储，可为 nil（不使用基准，单侧情况回退为当前曲线值）
func NewTweenSystem(em *ecs.EntityManager, baselines *game.BaselineStore) *TweenSystem {
	return &TweenSystem{
		entityManager: em,
		baselines:     baselines,
		evaluator:     tween.LinearEvaluator{},
	}
}

// SetEvaluator 设置通道求值器，nil 表示线性插值
func (s *TweenSystem) SetEvaluator(eval tween.Evaluator) {
	if eval == nil {
		eval = tween.LinearEvaluator{}
	}
	s.evaluator = eval
	s.dirty = true
}

// SetSliderCurve 设置滑块响应曲线，nil 表示线性
func (s *TweenSystem) SetSliderCurve(curve utils.SliderCurve) {
	s.curve = curve
	s.factor = utils.ApplySliderCurve(s.curve, s.rawFactor)
	s.dirty = true
}

// SetKinds 设置参与补间的通道类型，为空表示实体的全部通道
func (s *TweenSystem) SetKinds(kinds []keyframe.ChannelKind) {
	s.kinds = append([]keyframe.ChannelKind(nil), kinds...)
	s.dirty = true
}

// SetPublisher 设置结果接收方，可为 nil
func (s *TweenSystem) SetPublisher(p PosePublisher) {
	s.publisher = p
}

// SetRecordOnRelease 设置手势结束时是否自动记录关键帧
func (s *TweenSystem) SetRecordOnRelease(enabled bool) {
	s.recordOnRelease = enabled
}

// SetTime 设置当前时间（帧）
func (s *TweenSystem) SetTime(t float64) {
	if t != s.currentTime {
		s.currentTime = t
		s.dirty = true
	}
}

// Time 返回当前时间
func (s *TweenSystem) Time() float64 {
	return s.currentTime
}

// SetFactor 设置滑块百分比（0.0 ~ 1.0），经过响应曲线后作为混合系数
func (s *TweenSystem) SetFactor(percent float64) {
	s.rawFactor = tween.ClampFactor(percent)
	s.factor = utils.ApplySliderCurve(s.curve, s.rawFactor)
	s.dirty = true
}

// Factor 返回当前混合系数（已应用响应曲线）
func (s *TweenSystem) Factor() float64 {
	return s.factor
}

// IsGestureActive 是否处于手势中
func (s *TweenSystem) IsGestureActive() bool {
	return s.gestureActive
}

// BeginGesture 开始一次补间手势
// 为尚无当前帧基准的实体捕获当前姿态；已有当前帧基准的实体保持不变
func (s *TweenSystem) BeginGesture() {
	s.gestureActive = true
	if s.baselines == nil {
		return
	}

	for _, id := range s.targets() {
		name, anim, transform := s.components(id)
		values := make(map[keyframe.ChannelKind]float64)
		for _, k := range s.selectedKinds(anim) {
			values[k] = transform.Get(k)
		}
		if s.baselines.CaptureOnce(name.Name, s.currentTime, values) {
			log.Printf("[TweenSystem] Captured baseline for '%s' at %.2f (%d channels)", name.Name, s.currentTime, len(values))
		}
	}
}

// EndGesture 结束补间手势
// 返回本次是否记录了关键帧
func (s *TweenSystem) EndGesture() bool {
	if !s.gestureActive {
		return false
	}
	s.gestureActive = false

	if s.recordOnRelease {
		s.Apply(true)
		return true
	}
	return false
}

// Record 在当前时间以当前系数计算并插入关键帧
func (s *TweenSystem) Record() int {
	return s.Apply(true)
}

// ClearBaseline 清除实体的基准，name 为空时清除全部
func (s *TweenSystem) ClearBaseline(name string) {
	if s.baselines == nil {
		return
	}
	if name == "" {
		log.Printf("[TweenSystem] Cleared all baselines (%d entities)", len(s.baselines.Entities()))
		s.baselines.ClearAll()
	} else if s.baselines.Has(name) {
		s.baselines.Clear(name)
		log.Printf("[TweenSystem] Cleared baseline for '%s'", name)
	}
	s.dirty = true
}

// Update 系数或时间变化后重新计算并写回
func (s *TweenSystem) Update(deltaTime float64) {
	if !s.dirty {
		return
	}
	s.Apply(false)
}

// Apply 立即对所有目标实体执行补间并写回
//
// 参数：
//   - record: 为 true 时把结果作为关键帧写入通道
//
// 返回：
//   - int: 写回了至少一个通道的实体数量
func (s *TweenSystem) Apply(record bool) int {
	s.dirty = false
	updated := 0

	for _, id := range s.targets() {
		name, anim, transform := s.components(id)

		req := tween.BlendRequest{
			Entity: name.Name,
			Time:   s.currentTime,
			Factor: s.factor,
		}
		if s.baselines != nil {
			req.Baseline = s.baselines.SnapshotAt(name.Name, s.currentTime)
		}

		result := tween.BlendPose(req, anim.ChannelList(), s.kinds, s.evaluator)
		if len(result) == 0 {
			continue
		}
		updated++

		for k, v := range result {
			transform.Set(k, v)
			if record {
				anim.Channels[k].SetSample(s.currentTime, v)
			}
		}

		if s.publisher != nil {
			if err := s.publisher.PublishPose(req, result, record); err != nil {
				log.Printf("[TweenSystem] Warning: Failed to publish pose for '%s': %v", name.Name, err)
			}
		}
	}

	if record && updated > 0 {
		log.Printf("[TweenSystem] Recorded keyframes at %.2f for %d entities", s.currentTime, updated)
	}
	return updated
}

// targets 返回参与补间的实体（按ID升序）
func (s *TweenSystem) targets() []ecs.EntityID {
	entities := ecs.GetEntitiesWith2[*components.AnimationComponent, *components.TransformComponent](s.entityManager)
	result := entities[:0]
	for _, id := range entities {
		if _, ok := ecs.GetComponent[*components.NameComponent](s.entityManager, id); ok {
			result = append(result, id)
		}
	}
	return result
}

func (s *TweenSystem) components(id ecs.EntityID) (*components.NameComponent, *components.AnimationComponent, *components.TransformComponent) {
	name, _ := ecs.GetComponent[*components.NameComponent](s.entityManager, id)
	anim, _ := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
	transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	return name, anim, transform
}

// selectedKinds 返回实体参与补间的通道类型
func (s *TweenSystem) selectedKinds(anim *components.AnimationComponent) []keyframe.ChannelKind {
	if len(s.kinds) == 0 {
		return anim.Kinds()
	}
	kinds := make([]keyframe.ChannelKind, 0, len(s.kinds))
	for _, k := range s.kinds {
		if _, ok := anim.Channels[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
