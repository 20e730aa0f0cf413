package components

import "github.com/decker502/posetween/internal/keyframe"

// AnimationComponent 存储实体的关键帧动画通道
// 每个通道类型最多一条通道
type AnimationComponent struct {
	Channels map[keyframe.ChannelKind]*keyframe.Channel // 通道类型 -> 通道
}

// NewAnimationComponent 从通道列表创建动画组件
// 同一类型出现多次时保留第一条
func NewAnimationComponent(channels []keyframe.Channel) *AnimationComponent {
	a := &AnimationComponent{Channels: make(map[keyframe.ChannelKind]*keyframe.Channel)}
	for i := range channels {
		if _, exists := a.Channels[channels[i].Kind]; exists {
			continue
		}
		ch := channels[i]
		a.Channels[ch.Kind] = &ch
	}
	return a
}

// ChannelList 返回通道的副本列表（按通道类型声明顺序）
func (a *AnimationComponent) ChannelList() []keyframe.Channel {
	list := make([]keyframe.Channel, 0, len(a.Channels))
	for _, k := range keyframe.AllKinds() {
		if ch, ok := a.Channels[k]; ok {
			list = append(list, *ch)
		}
	}
	return list
}

// Kinds 返回已有通道的类型（按声明顺序）
func (a *AnimationComponent) Kinds() []keyframe.ChannelKind {
	kinds := make([]keyframe.ChannelKind, 0, len(a.Channels))
	for _, k := range keyframe.AllKinds() {
		if _, ok := a.Channels[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
