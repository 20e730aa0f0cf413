// Package bridge 将补间结果发布给宿主程序
//
// 宿主插件订阅 <prefix>/<entity>/pose 主题，收到消息后把各通道的值
// 重新组装为位置/旋转/缩放并写回场景，必要时插入关键帧。
package bridge

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/decker502/posetween/internal/keyframe"
	"github.com/decker502/posetween/pkg/config"
	"github.com/decker502/posetween/pkg/tween"
)

// Client 发布所需的 MQTT 客户端接口
// mqtt.Client 满足此接口；测试时可替换为 mock
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// PoseMessage 发布到宿主的姿态消息
type PoseMessage struct {
	Entity string  `json:"entity"`
	Time   float64 `json:"time"`
	Factor float64 `json:"factor"`

	// Record 为 true 时宿主应在 Time 插入关键帧
	Record bool `json:"record"`

	// Channels 通道名称 -> 补间值，被跳过的通道不出现
	Channels map[string]float64 `json:"channels"`

	// Groups 完整的属性组向量（所有分量都有值时才出现），便于宿主直接赋值
	Groups map[string][]float64 `json:"groups,omitempty"`
}

// NewPoseMessage 从补间结果构造消息
func NewPoseMessage(req tween.BlendRequest, result tween.BlendResult, record bool) PoseMessage {
	msg := PoseMessage{
		Entity:   req.Entity,
		Time:     req.Time,
		Factor:   tween.ClampFactor(req.Factor),
		Record:   record,
		Channels: make(map[string]float64, len(result)),
	}
	for k, v := range result {
		msg.Channels[k.String()] = v
	}

	for _, group := range []string{
		keyframe.GroupLocation,
		keyframe.GroupRotationEuler,
		keyframe.GroupRotationQuaternion,
		keyframe.GroupScale,
	} {
		if vec, ok := result.Vector(group); ok {
			if msg.Groups == nil {
				msg.Groups = make(map[string][]float64)
			}
			msg.Groups[group] = vec
		}
	}
	return msg
}

// Publisher MQTT 姿态发布器
type Publisher struct {
	client      Client
	topicPrefix string
	qos         byte
	retained    bool
	timeout     time.Duration
}

// NewPublisher 创建发布器
//
// 参数：
//   - client: MQTT 客户端，可为 nil（降级模式，发布被忽略）
//   - cfg: 桥接配置
func NewPublisher(client Client, cfg config.BridgeConfig) *Publisher {
	return &Publisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:         cfg.QoS,
		retained:    cfg.Retained,
		timeout:     5 * time.Second,
	}
}

// Topic 返回实体的姿态主题
func (p *Publisher) Topic(entity string) string {
	if p.topicPrefix == "" {
		return entity + "/pose"
	}
	return p.topicPrefix + "/" + entity + "/pose"
}

// PublishPose 发布一次补间结果
//
// 返回：
//   - error: 序列化失败、发布超时或 broker 返回错误
func (p *Publisher) PublishPose(req tween.BlendRequest, result tween.BlendResult, record bool) error {
	if p.client == nil {
		return nil
	}

	payload, err := json.Marshal(NewPoseMessage(req, result, record))
	if err != nil {
		return fmt.Errorf("failed to marshal pose message: %w", err)
	}

	topic := p.Topic(req.Entity)
	token := p.client.Publish(topic, p.qos, p.retained, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish to %s timed out after %v", topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Connect 按配置创建并连接 MQTT 客户端
// 桥接未启用时返回 nil 客户端和 nil 错误
func Connect(cfg config.BridgeConfig) (mqtt.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	mqtt.ERROR = log.New(os.Stderr, "[MQTT] ", log.LstdFlags)

	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Printf("[Bridge] Connected to %s", cfg.URL)
		})
	client := mqtt.NewClient(options)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, token.Error())
	}
	return client, nil
}
