package line

import (
	"testing"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/pool"
)

const testDT = 1.0 / 60.0

// fakePenalty 记录 LoseLife 调用次数
type fakePenalty struct {
	calls int
}

func (p *fakePenalty) LoseLife() { p.calls++ }

// testWorld 测试用的一组协作者
type testWorld struct {
	em       *ecs.EntityManager
	pool     *pool.BufferPool
	registry *Registry
	penalty  *fakePenalty
	root     ecs.EntityID
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	em := ecs.NewEntityManager()
	return &testWorld{
		em:       em,
		pool:     pool.NewBufferPool(100, 16),
		registry: NewRegistry(em),
		penalty:  &fakePenalty{},
		root:     em.CreateEntity(),
	}
}

func (w *testWorld) deps() Dependencies {
	return Dependencies{Pool: w.pool, Penalty: w.penalty, Settings: DefaultSettings()}
}

// newLine 创建并初始化一条折线
func (w *testWorld) newLine(t *testing.T, name string, pts ...geom.Vec3) *Line {
	t.Helper()
	l := NewLine(w.em, w.deps(), Source{Name: name, Points: pts}, w.root)
	if !l.Initialize(w.registry) {
		t.Fatalf("Line %q failed to initialize", name)
	}
	return l
}

// addSegment 在折线下挂一个线段碰撞体实体
func (w *testWorld) addSegment(owner ecs.EntityID) ecs.EntityID {
	id := w.em.CreateEntity()
	ecs.AddComponent(w.em, id, &components.SegmentColliderComponent{})
	ecs.AddComponent(w.em, id, &components.ParentComponent{Parent: owner})
	return id
}

func straightLine() []geom.Vec3 {
	return []geom.Vec3{geom.V2(0, 0), geom.V2(1, 0), geom.V2(2, 0)}
}

// tickUntil 逐帧推进直到 done 返回 true，超过 maxTicks 则失败
func tickUntil(t *testing.T, update func(float64), done func() bool, maxTicks int) int {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		update(testDT)
		if done() {
			return i
		}
	}
	t.Fatalf("Condition not reached within %d ticks", maxTicks)
	return 0
}
