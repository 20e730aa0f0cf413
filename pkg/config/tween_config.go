package config

import (
	"fmt"
	"os"

	"github.com/decker502/posetween/internal/keyframe"
	"github.com/decker502/posetween/pkg/utils"
	"gopkg.in/yaml.v3"
)

// TweenConfig 补间工具配置
//
// 配置文件位置: data/tween.yaml
type TweenConfig struct {
	// Tween 补间默认参数
	Tween TweenDefaults `yaml:"tween"`

	// Storage 基准姿态与设置的持久化
	Storage StorageConfig `yaml:"storage"`

	// Bridge 写回宿主程序的 MQTT 桥接
	Bridge BridgeConfig `yaml:"bridge"`
}

// TweenDefaults 补间默认参数
type TweenDefaults struct {
	// Channels 默认参与补间的属性组或通道名称
	// 如 ["location", "rotation_euler", "scale_x"]，为空表示实体的全部通道
	Channels []string `yaml:"channels"`

	// Interpolation 曲线插值模式: linear / constant
	Interpolation string `yaml:"interpolation"`

	// SliderCurve 滑块响应曲线名称（见 utils.SliderCurveNames）
	SliderCurve string `yaml:"sliderCurve"`

	// FrameOffset 导入动画片段时的帧偏移
	FrameOffset int `yaml:"frameOffset"`
}

// StorageConfig 持久化配置
type StorageConfig struct {
	// AppName gdata 应用名称（决定存储目录）
	AppName string `yaml:"appName"`

	// Disabled 为 true 时不持久化（仅内存）
	Disabled bool `yaml:"disabled"`
}

// BridgeConfig MQTT 桥接配置
type BridgeConfig struct {
	Enabled     bool   `yaml:"enabled"`
	URL         string `yaml:"url"`
	ClientID    string `yaml:"clientID"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topicPrefix"`
	QoS         byte   `yaml:"qos"`
	Retained    bool   `yaml:"retained"`
}

// DefaultTweenConfig 返回默认配置
func DefaultTweenConfig() *TweenConfig {
	return &TweenConfig{
		Tween: TweenDefaults{
			Interpolation: "linear",
			SliderCurve:   "linear",
		},
		Storage: StorageConfig{
			AppName: "posetween",
		},
		Bridge: BridgeConfig{
			URL:         "tcp://localhost:1883",
			ClientID:    "posetween",
			TopicPrefix: "posetween",
			QoS:         1,
		},
	}
}

// LoadTweenConfig 加载补间工具配置
//
// 从指定路径加载 YAML 配置，缺失字段使用默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/tween.yaml"）
//
// 返回:
//   - *TweenConfig: 加载成功后的配置结构
//   - error: 读取、解析或验证失败时返回错误
func LoadTweenConfig(path string) (*TweenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tween config: %w", err)
	}
	return ParseTweenConfig(data)
}

// ParseTweenConfig 从 YAML 内容解析配置，缺失字段使用默认值
func ParseTweenConfig(data []byte) (*TweenConfig, error) {
	config := DefaultTweenConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse tween config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tween config: %w", err)
	}

	return config, nil
}

// Validate 验证配置
func (c *TweenConfig) Validate() error {
	if _, err := keyframe.ParseKinds(c.Tween.Channels); err != nil {
		return fmt.Errorf("tween.channels: %w", err)
	}

	switch c.Tween.Interpolation {
	case "linear", "constant":
	default:
		return fmt.Errorf("tween.interpolation: unknown mode '%s'", c.Tween.Interpolation)
	}

	if _, ok := utils.LookupSliderCurve(c.Tween.SliderCurve); !ok {
		return fmt.Errorf("tween.sliderCurve: unknown curve '%s'", c.Tween.SliderCurve)
	}

	if !c.Storage.Disabled && c.Storage.AppName == "" {
		return fmt.Errorf("storage.appName is required unless storage is disabled")
	}

	if c.Bridge.Enabled {
		if c.Bridge.URL == "" {
			return fmt.Errorf("bridge.url is required when bridge is enabled")
		}
		if c.Bridge.QoS > 2 {
			return fmt.Errorf("bridge.qos must be 0, 1 or 2, got %d", c.Bridge.QoS)
		}
	}

	return nil
}

// ChannelKinds 返回解析后的默认通道类型
func (c *TweenConfig) ChannelKinds() []keyframe.ChannelKind {
	kinds, _ := keyframe.ParseKinds(c.Tween.Channels)
	return kinds
}
