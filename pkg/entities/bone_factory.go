package entities

import (
	"fmt"
	"log"

	"github.com/decker502/posetween/internal/keyframe"
	"github.com/decker502/posetween/pkg/components"
	"github.com/decker502/posetween/pkg/ecs"
)

// NewBoneEntity 创建可补间的骨骼/物体实体
//
// 参数:
//   - em: 实体管理器
//   - name: 实体名称，同名实体已存在时复用其ID
//   - channels: 关键帧通道，Entity 字段会被改写为 name
//
// 返回:
//   - ecs.EntityID: 实体ID
//
// 当前姿态初始化为第一帧（时间最小的关键帧）的值，未设置的通道为静止姿态。
func NewBoneEntity(em *ecs.EntityManager, name string, channels []keyframe.Channel) ecs.EntityID {
	owned := make([]keyframe.Channel, len(channels))
	for i, ch := range channels {
		ch.Entity = name
		owned[i] = ch
	}

	anim := components.NewAnimationComponent(owned)
	transform := components.NewTransformComponent()
	for k, ch := range anim.Channels {
		if samples := ch.Sorted(); len(samples) > 0 {
			transform.Set(k, samples[0].Value)
		}
	}

	entityID := em.CreateNamedEntity(name)
	em.AddComponent(entityID, &components.NameComponent{Name: name})
	em.AddComponent(entityID, anim)
	em.AddComponent(entityID, transform)
	return entityID
}

// LoadClipEntities 为动作片段中的每个骨骼创建实体
//
// 参数:
//   - em: 实体管理器
//   - clip: 已解析的动作片段
//   - frameOffset: 关键帧时间偏移
//   - bones: 只加载这些骨骼；为空时加载全部
//
// 返回:
//   - []ecs.EntityID: 与 bones 顺序一致的实体ID（未指定时按骨骼名称排序）
//   - error: 骨骼不存在或数据无效时返回错误
func LoadClipEntities(em *ecs.EntityManager, clip *keyframe.Clip, frameOffset int, bones ...string) ([]ecs.EntityID, error) {
	if len(bones) == 0 {
		bones = clip.BoneNames()
	}

	ids := make([]ecs.EntityID, 0, len(bones))
	for _, bone := range bones {
		channels, err := clip.Channels(bone, frameOffset)
		if err != nil {
			return nil, fmt.Errorf("failed to load bone '%s': %w", bone, err)
		}
		ids = append(ids, NewBoneEntity(em, bone, channels))
	}

	log.Printf("[entities] Loaded %d bones from clip '%s'", len(ids), clip.Action)
	return ids, nil
}
