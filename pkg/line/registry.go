package line

import (
	"fmt"
	"log"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/geom"
)

// Geometry 关卡中的折线来源
// Lines 为空时，用 Polylines 中的原始点序列合成折线
type Geometry struct {
	Lines     []Source
	Polylines [][]geom.Vec3
}

// Registry 关卡内活动折线的登记表（EntityRegistry）
//
// 只保存非拥有的查找引用，按登记顺序迭代。
// 活动数从 1 变为 0 时触发一次 OnAllEntitiesRemoved；
// Clear/DestroyAll 先清空集合再处理折线，因此不会触发该信号。
type Registry struct {
	em    *ecs.EntityManager
	lines []*Line
	index map[ecs.EntityID]*Line

	OnRegistered         event.Signal[*Line]
	OnUnregistered       event.Signal[*Line]
	OnAllEntitiesRemoved event.Notify
}

// NewRegistry 创建登记表
func NewRegistry(em *ecs.EntityManager) *Registry {
	return &Registry{
		em:    em,
		index: make(map[ecs.EntityID]*Line),
	}
}

// InitializeAll 为关卡中的每条折线创建实体、登记并初始化
//
// 会先 Clear 现有折线。geometry.Lines 非空时逐条使用；否则按 geometry.Polylines
// 合成折线（名称为 polyline-N）。点数不足的折线被丢弃，不计入活动数。
//
// 参数:
//   - geometry: 折线来源
//   - levelRoot: 关卡根实体，作为所有折线的父实体
//   - deps: 复用池、惩罚接收方和默认参数
//
// 返回:
//   - []*Line: 成功初始化的折线
func (r *Registry) InitializeAll(geometry Geometry, levelRoot ecs.EntityID, deps Dependencies) []*Line {
	r.Clear()

	if r.em == nil || levelRoot == ecs.InvalidEntity || !r.em.Exists(levelRoot) {
		log.Printf("[Registry] Warning: level root is missing, cannot initialize lines")
		return nil
	}

	sources := geometry.Lines
	if len(sources) == 0 {
		if len(geometry.Polylines) == 0 {
			log.Printf("[Registry] Warning: level has no line geometry")
			return nil
		}
		sources = make([]Source, 0, len(geometry.Polylines))
		for i, pts := range geometry.Polylines {
			sources = append(sources, Source{
				Name:   fmt.Sprintf("polyline-%d", i),
				Points: pts,
			})
		}
		log.Printf("[Registry] Synthesized %d lines from raw polylines", len(sources))
	}

	created := make([]*Line, 0, len(sources))
	for _, src := range sources {
		l := NewLine(r.em, deps, src, levelRoot)
		if !l.Initialize(r) {
			r.em.DestroyEntity(l.ID())
			continue
		}
		created = append(created, l)
	}

	log.Printf("[Registry] Initialized %d/%d lines", len(created), len(sources))
	return created
}

// Register 登记折线（幂等）
func (r *Registry) Register(l *Line) {
	if l == nil {
		return
	}
	if _, ok := r.index[l.ID()]; ok {
		return
	}
	r.lines = append(r.lines, l)
	r.index[l.ID()] = l
	r.OnRegistered.Emit(l)
}

// Unregister 移除折线（幂等）
// 活动数由 1 变为 0 时触发 OnAllEntitiesRemoved
func (r *Registry) Unregister(l *Line) {
	if l == nil {
		return
	}
	if _, ok := r.index[l.ID()]; !ok {
		return
	}
	delete(r.index, l.ID())
	for i, other := range r.lines {
		if other == l {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			break
		}
	}
	r.OnUnregistered.Emit(l)

	if len(r.lines) == 0 {
		log.Printf("[Registry] All lines removed")
		r.OnAllEntitiesRemoved.Emit()
	}
}

// Clear 清理所有折线并清空集合（关卡重载使用），不销毁实体
func (r *Registry) Clear() {
	lines := r.detach()
	for _, l := range lines {
		l.Cleanup()
	}
}

// DestroyAll 销毁所有折线并清空集合
func (r *Registry) DestroyAll() {
	lines := r.detach()
	for i := len(lines) - 1; i >= 0; i-- {
		lines[i].Destroy()
	}
}

// detach 清空集合并返回原有折线
func (r *Registry) detach() []*Line {
	lines := r.lines
	r.lines = nil
	r.index = make(map[ecs.EntityID]*Line)
	return lines
}

// ActiveCount 活动折线数
func (r *Registry) ActiveCount() int {
	return len(r.lines)
}

// Lines 按登记顺序返回活动折线的副本
func (r *Registry) Lines() []*Line {
	out := make([]*Line, len(r.lines))
	copy(out, r.lines)
	return out
}

// Get 按实体ID查找活动折线
func (r *Registry) Get(id ecs.EntityID) (*Line, bool) {
	l, ok := r.index[id]
	return l, ok
}

// LineAt 按登记顺序取折线，越界返回 nil
func (r *Registry) LineAt(i int) *Line {
	if i < 0 || i >= len(r.lines) {
		return nil
	}
	return r.lines[i]
}

// ResolveOwner 将碰撞体追溯到活动折线
// 碰撞体本身是折线，或其父实体是折线时返回该折线
func (r *Registry) ResolveOwner(collider ecs.EntityID) (ecs.EntityID, bool) {
	if _, ok := r.index[collider]; ok {
		return collider, true
	}
	if r.em == nil {
		return ecs.InvalidEntity, false
	}
	parent, ok := ecs.GetComponent[*components.ParentComponent](r.em, collider)
	if !ok {
		return ecs.InvalidEntity, false
	}
	if _, ok := r.index[parent.Parent]; ok {
		return parent.Parent, true
	}
	return ecs.InvalidEntity, false
}
