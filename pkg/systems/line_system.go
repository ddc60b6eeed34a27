package systems

import (
	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/line"
)

// LineSystem 逐帧推进所有活动折线
// 并把折线的可点击状态同步到 ClickableComponent
type LineSystem struct {
	entityManager *ecs.EntityManager
	registry      *line.Registry
}

// NewLineSystem 创建折线系统
func NewLineSystem(em *ecs.EntityManager, registry *line.Registry) *LineSystem {
	return &LineSystem{
		entityManager: em,
		registry:      registry,
	}
}

// Update 按登记顺序推进每条折线
// 推进过程中被销毁的折线会从登记表移除，因此遍历快照
func (s *LineSystem) Update(deltaTime float64) {
	for _, l := range s.registry.Lines() {
		if l.IsDestroyed() {
			continue
		}
		l.Update(deltaTime)
	}

	for _, l := range s.registry.Lines() {
		clickable, ok := ecs.GetComponent[*components.ClickableComponent](s.entityManager, l.ID())
		if !ok {
			continue
		}
		clickable.IsEnabled = l.IsClickable()
	}
}
