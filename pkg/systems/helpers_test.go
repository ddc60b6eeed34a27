package systems

import (
	"testing"

	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/game"
	"github.com/gonewx/linepull/pkg/line"
	"github.com/gonewx/linepull/pkg/pool"
)

const testDT = 1.0 / 60.0

// testWorld 按场景的帧顺序组装所有系统
type testWorld struct {
	em       *ecs.EntityManager
	pool     *pool.BufferPool
	registry *line.Registry
	lives    *game.LivesManager

	segments *SegmentColliderSystem
	lines    *LineSystem
	heads    *HeadCollisionSystem
	input    *InputSystem
	level    *LevelSystem
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	em := ecs.NewEntityManager()
	registry := line.NewRegistry(em)
	lives := game.NewLivesManager(game.MaxLives)
	w := &testWorld{
		em:       em,
		pool:     pool.NewBufferPool(100, 16),
		registry: registry,
		lives:    lives,
		segments: NewSegmentColliderSystem(em, registry, DefaultSegmentThickness, DefaultSegmentExtraLength),
		lines:    NewLineSystem(em, registry),
		heads:    NewHeadCollisionSystem(em, registry),
		input:    NewInputSystem(em, registry),
	}
	w.level = NewLevelSystem(em, registry, lives, w.input, line.Dependencies{
		Pool:     w.pool,
		Settings: line.DefaultSettings(),
	})
	return w
}

// step 推进一帧
func (w *testWorld) step(dt float64) {
	w.lines.Update(dt)
	w.heads.Update(dt)
	w.level.Update(dt)
	w.lives.AdvanceFrame()
	w.em.RemoveMarkedEntities()
}

// run 逐帧推进直到 done 返回 true，超过 maxTicks 则失败
func (w *testWorld) run(t *testing.T, done func() bool, maxTicks int) int {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		w.step(testDT)
		if done() {
			return i
		}
	}
	t.Fatalf("Condition not reached within %d ticks", maxTicks)
	return 0
}

// lineNamed 按名称查找活动折线
func (w *testWorld) lineNamed(t *testing.T, name string) *line.Line {
	t.Helper()
	for _, l := range w.registry.Lines() {
		if l.Name() == name {
			return l
		}
	}
	t.Fatalf("Line %q is not registered", name)
	return nil
}

func pt(x, y float64) config.Point { return config.Point{x, y} }

// crossingLevel 水平折线 "runner" 的头部前方有一条竖直折线 "wall"
func crossingLevel() *config.LevelConfig {
	return &config.LevelConfig{
		ID:                 "test",
		Name:               "test",
		Lives:              3,
		ResultDelaySeconds: 0.1,
		Lines: []config.LineSpec{
			{Name: "runner", Points: []config.Point{pt(0, 0), pt(2, 0)}},
			{Name: "wall", Points: []config.Point{pt(3, -1), pt(3, 1)}},
		},
	}
}

// parallelLevel 两条互不阻挡的水平折线
func parallelLevel() *config.LevelConfig {
	return &config.LevelConfig{
		ID:                 "parallel",
		Name:               "parallel",
		Lives:              3,
		ResultDelaySeconds: 0.1,
		Lines: []config.LineSpec{
			{Name: "top", Points: []config.Point{pt(0, 2), pt(1, 2)}, DestroyDelaySeconds: 0.2},
			{Name: "bottom", Points: []config.Point{pt(0, 0), pt(1, 0)}, DestroyDelaySeconds: 0.2},
		},
	}
}

func near(a, b, eps float64) bool {
	d := a - b
	return d <= eps && d >= -eps
}

// configWithLine 只含一条折线的关卡
func configWithLine(name string, pts ...config.Point) *config.LevelConfig {
	return &config.LevelConfig{
		ID:                 name,
		Name:               name,
		Lives:              3,
		ResultDelaySeconds: 0.1,
		Lines:              []config.LineSpec{{Name: name, Points: pts}},
	}
}
