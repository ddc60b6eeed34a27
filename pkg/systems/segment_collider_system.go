package systems

import (
	"log"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/line"
)

// 线段碰撞体默认尺寸
const (
	DefaultSegmentThickness   = 0.2
	DefaultSegmentExtraLength = 0.2
)

// trackedLine 已挂接的折线及其线段实体
type trackedLine struct {
	line      *line.Line
	segments  []ecs.EntityID
	positions event.Subscription
	cleaned   event.Subscription
}

// SegmentColliderSystem 线段碰撞体同步系统
//
// 职责：
//   - 折线登记时挂接，订阅其 OnPositionsChanged
//   - 每段生成一个挂在折线实体下的 SegmentColliderComponent 实体
//   - 段数变化时重建，否则原地更新端点；点数不足 2 时清空
//   - 折线清理时移除所有线段实体并解除订阅
//
// 完全由事件驱动，没有 Update。
type SegmentColliderSystem struct {
	entityManager *ecs.EntityManager
	registry      *line.Registry
	thickness     float64
	extraLength   float64

	tracked    map[ecs.EntityID]*trackedLine
	registered event.Subscription
	scratch    []geom.Vec3
}

// NewSegmentColliderSystem 创建线段碰撞体同步系统
// 会立即挂接已登记的折线
func NewSegmentColliderSystem(em *ecs.EntityManager, registry *line.Registry, thickness, extraLength float64) *SegmentColliderSystem {
	if thickness <= 0 {
		thickness = DefaultSegmentThickness
	}
	if extraLength < 0 {
		extraLength = 0
	}
	s := &SegmentColliderSystem{
		entityManager: em,
		registry:      registry,
		thickness:     thickness,
		extraLength:   extraLength,
		tracked:       make(map[ecs.EntityID]*trackedLine),
	}
	s.registered = registry.OnRegistered.Subscribe(s.attach)
	for _, l := range registry.Lines() {
		s.attach(l)
	}
	return s
}

func (s *SegmentColliderSystem) attach(l *line.Line) {
	if _, ok := s.tracked[l.ID()]; ok {
		return
	}
	t := &trackedLine{line: l}
	t.positions = l.Animation().OnPositionsChanged.Subscribe(func() { s.sync(t) })
	t.cleaned = l.OnCleanedUp.Subscribe(s.detach)
	s.tracked[l.ID()] = t
	s.sync(t)
}

func (s *SegmentColliderSystem) detach(l *line.Line) {
	t, ok := s.tracked[l.ID()]
	if !ok {
		return
	}
	l.Animation().OnPositionsChanged.Unsubscribe(t.positions)
	l.OnCleanedUp.Unsubscribe(t.cleaned)
	s.destroySegments(t)
	delete(s.tracked, l.ID())
}

// sync 按当前点序列同步线段实体
func (s *SegmentColliderSystem) sync(t *trackedLine) {
	s.scratch = t.line.Animation().AppendPoints(s.scratch[:0])
	pts := s.scratch
	if len(pts) < 2 {
		s.destroySegments(t)
		return
	}

	count := len(pts) - 1
	if len(t.segments) != count {
		s.destroySegments(t)
		for i := 0; i < count; i++ {
			id := s.entityManager.CreateEntity()
			ecs.AddComponent(s.entityManager, id, &components.SegmentColliderComponent{
				Index:       i,
				Thickness:   s.thickness,
				ExtraLength: s.extraLength,
			})
			ecs.AddComponent(s.entityManager, id, &components.ParentComponent{Parent: t.line.ID()})
			t.segments = append(t.segments, id)
		}
	}

	for i, id := range t.segments {
		seg, ok := ecs.GetComponent[*components.SegmentColliderComponent](s.entityManager, id)
		if !ok {
			log.Printf("[SegmentColliderSystem] Warning: segment %d of line %q lost its collider", i, t.line.Name())
			continue
		}
		seg.A = pts[i]
		seg.B = pts[i+1]
	}
}

func (s *SegmentColliderSystem) destroySegments(t *trackedLine) {
	for _, id := range t.segments {
		s.entityManager.DestroyEntity(id)
	}
	t.segments = t.segments[:0]
}

// Segments 返回折线当前的线段实体（按段序号）
func (s *SegmentColliderSystem) Segments(lineID ecs.EntityID) []ecs.EntityID {
	t, ok := s.tracked[lineID]
	if !ok {
		return nil
	}
	out := make([]ecs.EntityID, len(t.segments))
	copy(out, t.segments)
	return out
}

// TrackedCount 已挂接的折线数
func (s *SegmentColliderSystem) TrackedCount() int {
	return len(s.tracked)
}

// Close 解除所有订阅并移除线段实体
func (s *SegmentColliderSystem) Close() {
	s.registry.OnRegistered.Unsubscribe(s.registered)
	for _, t := range s.tracked {
		s.detach(t.line)
	}
}
