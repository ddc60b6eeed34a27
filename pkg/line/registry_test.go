package line

import (
	"testing"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/geom"
)

func TestInitializeAllFromSources(t *testing.T) {
	w := newTestWorld(t)
	registered := 0
	w.registry.OnRegistered.Subscribe(func(*Line) { registered++ })

	lines := w.registry.InitializeAll(Geometry{Lines: []Source{
		{Name: "a", Points: straightLine()},
		{Name: "dot", Points: []geom.Vec3{geom.V2(0, 0)}},
		{Name: "b", Points: []geom.Vec3{geom.V2(0, 1), geom.V2(1, 1)}},
	}}, w.root, w.deps())

	if len(lines) != 2 || w.registry.ActiveCount() != 2 || registered != 2 {
		t.Fatalf("Expected 2 lines, got %d (active %d)", len(lines), w.registry.ActiveCount())
	}
	if w.registry.LineAt(0).Name() != "a" || w.registry.LineAt(1).Name() != "b" {
		t.Error("Lines should keep load order")
	}
	if w.registry.LineAt(2) != nil || w.registry.LineAt(-1) != nil {
		t.Error("Out of range LineAt should return nil")
	}
	// 失败的折线实体已被标记删除
	if got := len(ecs.GetEntitiesWith1[*components.PolylineComponent](w.em)); got != 2 {
		t.Errorf("Expected 2 polyline entities, got %d", got)
	}
}

func TestInitializeAllSynthesizesFromPolylines(t *testing.T) {
	w := newTestWorld(t)
	lines := w.registry.InitializeAll(Geometry{Polylines: [][]geom.Vec3{
		straightLine(),
		{geom.V2(3, 3), geom.V2(4, 4)},
	}}, w.root, w.deps())

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0].Name() != "polyline-0" || lines[1].Name() != "polyline-1" {
		t.Errorf("Unexpected synthesized names %q %q", lines[0].Name(), lines[1].Name())
	}
}

func TestInitializeAllWithoutRoot(t *testing.T) {
	w := newTestWorld(t)
	geometry := Geometry{Lines: []Source{{Name: "a", Points: straightLine()}}}

	if lines := w.registry.InitializeAll(geometry, ecs.InvalidEntity, w.deps()); lines != nil {
		t.Error("Missing root should initialize nothing")
	}
	if lines := w.registry.InitializeAll(Geometry{}, w.root, w.deps()); lines != nil {
		t.Error("Empty geometry should initialize nothing")
	}
	if w.registry.ActiveCount() != 0 {
		t.Errorf("Expected empty registry, got %d", w.registry.ActiveCount())
	}
}

func TestAllEntitiesRemovedFiresOnce(t *testing.T) {
	w := newTestWorld(t)
	fired := 0
	w.registry.OnAllEntitiesRemoved.Subscribe(func() { fired++ })

	a := w.newLine(t, "a", straightLine()...)
	b := w.newLine(t, "b", geom.V2(0, 1), geom.V2(1, 1))

	a.Destroy()
	if fired != 0 {
		t.Fatal("Should not fire while lines remain")
	}
	b.Destroy()
	b.Destroy()
	w.registry.Unregister(b)

	if fired != 1 {
		t.Errorf("Expected all-removed exactly once, got %d", fired)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	w := newTestWorld(t)
	a := w.newLine(t, "a", straightLine()...)
	w.registry.Register(a)
	w.registry.Register(nil)

	if w.registry.ActiveCount() != 1 {
		t.Errorf("Expected 1 line, got %d", w.registry.ActiveCount())
	}
	if got, ok := w.registry.Get(a.ID()); !ok || got != a {
		t.Error("Get should find the registered line")
	}
}

func TestClearAndDestroyAllDoNotFireAllRemoved(t *testing.T) {
	w := newTestWorld(t)
	fired := 0
	w.registry.OnAllEntitiesRemoved.Subscribe(func() { fired++ })

	w.newLine(t, "a", straightLine()...)
	w.newLine(t, "b", geom.V2(0, 1), geom.V2(1, 1))
	w.registry.Clear()
	if w.registry.ActiveCount() != 0 {
		t.Errorf("Clear should empty the registry, got %d", w.registry.ActiveCount())
	}

	c := w.newLine(t, "c", straightLine()...)
	w.registry.DestroyAll()
	if !c.IsDestroyed() {
		t.Error("DestroyAll should destroy every line")
	}

	if fired != 0 {
		t.Errorf("Bulk removal should not report all-removed, got %d", fired)
	}
}

func TestResolveOwner(t *testing.T) {
	w := newTestWorld(t)
	a := w.newLine(t, "a", straightLine()...)
	segment := w.addSegment(a.ID())
	orphan := w.addSegment(w.root)
	stray := w.em.CreateEntity()

	if owner, ok := w.registry.ResolveOwner(segment); !ok || owner != a.ID() {
		t.Errorf("Segment should resolve to line %d, got %d", a.ID(), owner)
	}
	if owner, ok := w.registry.ResolveOwner(a.ID()); !ok || owner != a.ID() {
		t.Errorf("Line should resolve to itself, got %d", owner)
	}
	if _, ok := w.registry.ResolveOwner(orphan); ok {
		t.Error("Collider under a non-line parent should not resolve")
	}
	if _, ok := w.registry.ResolveOwner(stray); ok {
		t.Error("Unparented entity should not resolve")
	}

	a.Destroy()
	if _, ok := w.registry.ResolveOwner(segment); ok {
		t.Error("Colliders of removed lines should not resolve")
	}
}
