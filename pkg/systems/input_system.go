package systems

import (
	"log"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/line"
)

// InputSystem 处理折线选中
//
// 宿主把屏幕点击换算成世界坐标后调用 HandleClick。
// 命中检测使用线段碰撞体的有向矩形，宽度按折线的 PickRadius 放大；
// 多段命中时选横向距离最近的一段，再追溯到所属折线。
type InputSystem struct {
	entityManager *ecs.EntityManager
	registry      *line.Registry
	locked        bool

	OnLineSelected event.Signal[*line.Line]
}

// NewInputSystem 创建输入系统
func NewInputSystem(em *ecs.EntityManager, registry *line.Registry) *InputSystem {
	return &InputSystem{
		entityManager: em,
		registry:      registry,
	}
}

// HandleClick 处理一次点击
//
// 参数:
//   - worldPos: 点击位置（世界坐标）
//
// 返回:
//   - *line.Line: 被选中的折线，未选中时为 nil
//   - bool: 是否选中
func (s *InputSystem) HandleClick(worldPos geom.Vec3) (*line.Line, bool) {
	if s.locked {
		return nil, false
	}

	target, ok := s.Pick(worldPos)
	if !ok {
		return nil, false
	}
	if !target.IsClickable() {
		log.Printf("[InputSystem] Line %q is not clickable right now", target.Name())
		return nil, false
	}

	target.OnSelected(worldPos)
	s.OnLineSelected.Emit(target)
	return target, true
}

// Pick 返回点击位置下最近的可点击折线，不触发选中
func (s *InputSystem) Pick(worldPos geom.Vec3) (*line.Line, bool) {
	var best *line.Line
	bestDist := 0.0

	for _, id := range ecs.GetEntitiesWith1[*components.SegmentColliderComponent](s.entityManager) {
		owner, ok := s.registry.ResolveOwner(id)
		if !ok {
			continue
		}
		clickable, ok := ecs.GetComponent[*components.ClickableComponent](s.entityManager, owner)
		if !ok || !clickable.IsEnabled {
			continue
		}
		seg, _ := ecs.GetComponent[*components.SegmentColliderComponent](s.entityManager, id)
		dist, hit := segmentBoxHit(worldPos, seg, clickable.PickRadius)
		if !hit {
			continue
		}
		if best == nil || dist < bestDist {
			if l, ok := s.registry.Get(owner); ok {
				best, bestDist = l, dist
			}
		}
	}
	return best, best != nil
}

// Lock 禁止选中（关卡结果待公布时）
func (s *InputSystem) Lock() { s.locked = true }

// Unlock 允许选中
func (s *InputSystem) Unlock() { s.locked = false }

// IsLocked 是否禁止选中
func (s *InputSystem) IsLocked() bool { return s.locked }
