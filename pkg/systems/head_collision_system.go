package systems

import (
	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/line"
)

// HeadCollisionSystem 折线头部碰撞检测
//
// 每帧对每条已武装且未触发的折线，用头点（半径 HeadRadius）检测所有线段碰撞体：
// 点到线段距离 <= HeadRadius + Thickness/2 即视为重叠，上报给该折线的检测器。
// 归属解析和排除自身几何由检测器完成。
type HeadCollisionSystem struct {
	entityManager *ecs.EntityManager
	registry      *line.Registry
}

// NewHeadCollisionSystem 创建头部碰撞检测系统
func NewHeadCollisionSystem(em *ecs.EntityManager, registry *line.Registry) *HeadCollisionSystem {
	return &HeadCollisionSystem{
		entityManager: em,
		registry:      registry,
	}
}

// Update 检测头部重叠
func (s *HeadCollisionSystem) Update(deltaTime float64) {
	segments := ecs.GetEntitiesWith1[*components.SegmentColliderComponent](s.entityManager)
	if len(segments) == 0 {
		return
	}

	for _, l := range s.registry.Lines() {
		detector := l.Detector()
		if l.IsDestroyed() || !detector.IsArmed() || detector.HasFired() {
			continue
		}
		head, ok := l.Head()
		if !ok {
			continue
		}

		radius := line.DefaultHeadRadius
		if poly, ok := ecs.GetComponent[*components.PolylineComponent](s.entityManager, l.ID()); ok {
			radius = poly.HeadRadius
		}

		for _, id := range segments {
			seg, ok := ecs.GetComponent[*components.SegmentColliderComponent](s.entityManager, id)
			if !ok {
				continue
			}
			if segmentDistance(head, seg) > radius+seg.Thickness/2 {
				continue
			}
			if detector.Report(id) {
				break
			}
		}
	}
}
