package game

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/decker502/posetween/internal/keyframe"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	baselineObject   = "baselines"
	baselineProperty = "pose"
)

// BaselineStore 基准姿态存储
//
// 以 (实体, 通道类型) 为键保存调用方捕获的基准值，并记录捕获时所在的帧。
// 一次补间手势（如拖动百分比滑块）开始时捕获一次，整个手势期间保持不变，
// 避免引擎输出写回后再被读作"当前值"导致的漂移。
// 基准只在捕获帧上有效，换到其他帧的手势会重新捕获。
//
// 清除操作作为独立的用户操作暴露（"清除已存姿态"），
// 以便下一次手势从新的基准开始。
//
// 持久化通过 gdata 完成，gdataManager 为 nil 时仅保存在内存中（降级模式）。
type BaselineStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式）

	mu      sync.RWMutex
	entries map[string]*baselineEntry
}

// baselineEntry 单个实体的基准
type baselineEntry struct {
	Time   float64                          // 捕获时的帧
	Values map[keyframe.ChannelKind]float64 // 各通道基准值
}

// NewBaselineStore 创建基准姿态存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
//
// 返回：
//   - *BaselineStore: 存储实例
//   - error: 始终为 nil，加载失败只记录日志
func NewBaselineStore(gdataManager *gdata.Manager) (*BaselineStore, error) {
	s := &BaselineStore{
		gdataManager: gdataManager,
		entries:      make(map[string]*baselineEntry),
	}

	if err := s.Load(); err != nil {
		// 加载失败不是致命错误，从空存储开始
		log.Printf("[BaselineStore] Warning: Failed to load baselines: %v (starting empty)", err)
	}

	return s, nil
}

// CaptureOnce 仅在实体尚无 time 帧的基准时保存
// 已有其他帧的基准时视为过期，用新值替换
//
// 返回：
//   - bool: true 表示本次写入了基准，false 表示已有该帧的基准（保持不变）
func (s *BaselineStore) CaptureOnce(entity string, time float64, values map[keyframe.ChannelKind]float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[entity]; exists && e.Time == time {
		return false
	}
	s.entries[entity] = newBaselineEntry(time, values)
	return true
}

func newBaselineEntry(time float64, values map[keyframe.ChannelKind]float64) *baselineEntry {
	snapshot := make(map[keyframe.ChannelKind]float64, len(values))
	for k, v := range values {
		snapshot[k] = v
	}
	return &baselineEntry{Time: time, Values: snapshot}
}

// Has 检查实体是否有基准
func (s *BaselineStore) Has(entity string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[entity]
	return ok
}

// CapturedAt 返回实体基准的捕获帧
func (s *BaselineStore) CapturedAt(entity string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entity]
	if !ok {
		return 0, false
	}
	return e.Time, true
}

// Get 获取单个通道的基准值
func (s *BaselineStore) Get(entity string, kind keyframe.ChannelKind) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entity]
	if !ok {
		return 0, false
	}
	v, ok := e.Values[kind]
	return v, ok
}

// SnapshotAt 返回实体在 time 帧捕获的基准副本，可直接作为 BlendRequest.Baseline
// 没有基准或基准捕获于其他帧时返回 nil
func (s *BaselineStore) SnapshotAt(entity string, time float64) map[keyframe.ChannelKind]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[entity]
	if !ok || e.Time != time {
		return nil
	}
	return newBaselineEntry(e.Time, e.Values).Values
}

// Entities 返回有基准的实体名称（已排序）
func (s *BaselineStore) Entities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear 清除单个实体的基准
func (s *BaselineStore) Clear(entity string) {
	s.mu.Lock()
	delete(s.entries, entity)
	s.mu.Unlock()
}

// ClearAll 清除所有基准
func (s *BaselineStore) ClearAll() {
	s.mu.Lock()
	s.entries = make(map[string]*baselineEntry)
	s.mu.Unlock()
}

// Load 从 gdata 加载基准
//
// gdataManager 为 nil 或数据不存在时保持当前内容
//
// 返回：
//   - error: 读取或反序列化失败时返回错误
func (s *BaselineStore) Load() error {
	if s.gdataManager == nil {
		return nil
	}

	if !s.gdataManager.ObjectPropExists(baselineObject, baselineProperty) {
		return nil
	}

	data, err := s.gdataManager.LoadObjectProp(baselineObject, baselineProperty)
	if err != nil {
		return fmt.Errorf("failed to load baselines: %w", err)
	}

	entries, err := decodeBaselines(data)
	if err != nil {
		return fmt.Errorf("failed to unmarshal baselines: %w", err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	log.Printf("[BaselineStore] Loaded baselines for %d entities", len(entries))
	return nil
}

// Save 保存基准到 gdata
//
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (s *BaselineStore) Save() error {
	if s.gdataManager == nil {
		return nil
	}

	s.mu.RLock()
	data, err := encodeBaselines(s.entries)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal baselines: %w", err)
	}

	if err := s.gdataManager.SaveObjectProp(baselineObject, baselineProperty, data); err != nil {
		return fmt.Errorf("failed to save baselines: %w", err)
	}
	return nil
}

// storedBaseline 持久化格式，通道以名称为键
type storedBaseline struct {
	Time   float64            `yaml:"time"`
	Values map[string]float64 `yaml:"values"`
}

// encodeBaselines 以通道名称为键序列化为 YAML
func encodeBaselines(entries map[string]*baselineEntry) ([]byte, error) {
	doc := make(map[string]storedBaseline, len(entries))
	for entity, e := range entries {
		m := make(map[string]float64, len(e.Values))
		for k, v := range e.Values {
			m[k.String()] = v
		}
		doc[entity] = storedBaseline{Time: e.Time, Values: m}
	}
	return yaml.Marshal(doc)
}

func decodeBaselines(data []byte) (map[string]*baselineEntry, error) {
	var doc map[string]storedBaseline
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	entries := make(map[string]*baselineEntry, len(doc))
	for entity, stored := range doc {
		m := make(map[keyframe.ChannelKind]float64, len(stored.Values))
		for name, v := range stored.Values {
			k, err := keyframe.ParseKind(name)
			if err != nil {
				return nil, fmt.Errorf("entity '%s': %w", entity, err)
			}
			m[k] = v
		}
		entries[entity] = &baselineEntry{Time: stored.Time, Values: m}
	}
	return entries, nil
}
