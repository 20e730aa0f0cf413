package game

import (
	"fmt"
	"log"

	"github.com/decker502/posetween/pkg/tween"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// TweenSettings 补间工具的用户偏好
// 跨会话保存，与具体实体无关
type TweenSettings struct {
	// 交互设置
	LastFactor      float64 `yaml:"lastFactor"`      // 上次松开滑块时的百分比 0.0 ~ 1.0
	SliderCurve     string  `yaml:"sliderCurve"`     // 滑块响应曲线名称
	RecordOnRelease bool    `yaml:"recordOnRelease"` // 松开滑块时是否自动记录关键帧

	// 求值设置
	Interpolation string   `yaml:"interpolation"` // 曲线插值模式 linear / constant
	Groups        []string `yaml:"groups"`        // 参与补间的属性组或通道名称
}

// DefaultSettings 返回默认设置
func DefaultSettings() *TweenSettings {
	return &TweenSettings{
		LastFactor:      0.5,
		SliderCurve:     "linear",
		RecordOnRelease: false,
		Interpolation:   "linear",
		Groups:          []string{"location", "rotation_euler", "rotation_quaternion", "scale"},
	}
}

// SettingsManager 设置管理器
// 负责补间工具设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *TweenSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "tween"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 以默认值为底，缺失字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	loaded.LastFactor = tween.ClampFactor(loaded.LastFactor)
	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *TweenSettings {
	return sm.settings
}

// SetLastFactor 记录上次的百分比
// 值会被限制在 0.0 ~ 1.0 范围内，需调用 Save() 持久化
func (sm *SettingsManager) SetLastFactor(factor float64) {
	sm.settings.LastFactor = tween.ClampFactor(factor)
}

// SetSliderCurve 设置滑块响应曲线
func (sm *SettingsManager) SetSliderCurve(name string) {
	sm.settings.SliderCurve = name
}

// SetInterpolation 设置曲线插值模式
func (sm *SettingsManager) SetInterpolation(mode string) {
	sm.settings.Interpolation = mode
}

// SetRecordOnRelease 设置松开滑块时是否自动记录关键帧
func (sm *SettingsManager) SetRecordOnRelease(enabled bool) {
	sm.settings.RecordOnRelease = enabled
}

// SetGroups 设置参与补间的属性组
func (sm *SettingsManager) SetGroups(groups []string) {
	sm.settings.Groups = append([]string(nil), groups...)
}
