package tween

import "github.com/decker502/posetween/internal/keyframe"

// Neighbors 当前时间两侧最近的关键帧时间
type Neighbors struct {
	Prev    float64 // 严格小于当前时间的最大关键帧时间
	Next    float64 // 严格大于当前时间的最小关键帧时间
	HasPrev bool
	HasNext bool
}

// Span 返回前后关键帧之间的帧数，任一侧缺失时返回 0
func (n Neighbors) Span() float64 {
	if !n.HasPrev || !n.HasNext {
		return 0
	}
	return n.Next - n.Prev
}

// FindNeighbors 查找通道在当前时间两侧的关键帧
//
// 规则：
//   - Prev 是严格小于 t 的最大关键帧时间
//   - Next 是严格大于 t 的最小关键帧时间
//   - 正好位于 t 的关键帧既不是 Prev 也不是 Next
//
// 样本无需预先排序。查找严格按单个标量通道进行，
// 不会因为同一属性的其他分量曲线而提前结束。
func FindNeighbors(ch keyframe.Channel, t float64) Neighbors {
	var n Neighbors
	for _, s := range ch.Samples {
		switch {
		case s.Time < t:
			if !n.HasPrev || s.Time > n.Prev {
				n.Prev = s.Time
				n.HasPrev = true
			}
		case s.Time > t:
			if !n.HasNext || s.Time < n.Next {
				n.Next = s.Time
				n.HasNext = true
			}
		}
	}
	return n
}
