package systems

import (
	"testing"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/line"
)

// resultCounter 记录胜负事件
type resultCounter struct {
	wins, losses int
}

func countResults(s *LevelSystem) *resultCounter {
	c := &resultCounter{}
	s.OnWin.Subscribe(func() { c.wins++ })
	s.OnLose.Subscribe(func() { c.losses++ })
	return c
}

func TestLevelLoad(t *testing.T) {
	w := newTestWorld(t)
	loaded := 0
	w.level.OnLevelLoaded.Subscribe(func(*config.LevelConfig) { loaded++ })

	level := crossingLevel()
	level.Lines = append(level.Lines, config.LineSpec{Name: "dot", Points: []config.Point{pt(5, 5)}})
	if n := w.level.Load(level); n != 2 {
		t.Errorf("Expected 2 lines created, got %d", n)
	}
	if loaded != 1 {
		t.Errorf("Expected OnLevelLoaded once, got %d", loaded)
	}
	if w.registry.ActiveCount() != 2 {
		t.Errorf("Expected 2 active lines, got %d", w.registry.ActiveCount())
	}
	if w.lives.MaxLives() != 3 || w.lives.CurrentLives() != 3 {
		t.Errorf("Expected 3/3 lives, got %d/%d", w.lives.CurrentLives(), w.lives.MaxLives())
	}
	if w.level.Level() != level || w.level.IsPlaying() {
		t.Error("Expected level loaded but not playing")
	}
	for _, l := range w.registry.Lines() {
		parent, ok := ecs.GetComponent[*components.ParentComponent](w.em, l.ID())
		if !ok || parent.Parent != w.level.Root() {
			t.Errorf("Expected %q to be parented to the level root", l.Name())
		}
	}
	if _, limited := w.level.RemainingTime(); limited {
		t.Error("Expected no time limit")
	}

	if n := w.level.Load(nil); n != 0 {
		t.Errorf("Expected nil level to create nothing, got %d", n)
	}
	if w.registry.ActiveCount() != 0 {
		t.Errorf("Expected previous lines unloaded, got %d", w.registry.ActiveCount())
	}
}

func TestLevelWinAfterAllLinesRemoved(t *testing.T) {
	w := newTestWorld(t)
	results := countResults(w.level)
	w.level.Load(parallelLevel())
	w.level.Play()

	if _, ok := w.input.HandleClick(geom.V2(0.5, 2)); !ok {
		t.Fatal("Expected top line selected")
	}
	if _, ok := w.input.HandleClick(geom.V2(0.5, 0)); !ok {
		t.Fatal("Expected bottom line selected")
	}

	w.run(t, func() bool { return w.level.PendingResult() == ResultWin }, 30)
	if !w.input.IsLocked() {
		t.Error("Expected input locked once the result is decided")
	}
	if results.wins != 0 {
		t.Error("Expected win announced only after the result delay")
	}

	w.run(t, func() bool { return w.level.Result() == ResultWin }, 30)
	if results.wins != 1 || results.losses != 0 {
		t.Errorf("Expected 1 win and 0 losses, got %d/%d", results.wins, results.losses)
	}
	if w.level.IsPlaying() {
		t.Error("Expected level to stop playing after the result")
	}
	if got := w.pool.Stats().CheckedOut; got != 0 {
		t.Errorf("Expected all point buffers returned, got %d checked out", got)
	}

	for i := 0; i < 60; i++ {
		w.step(testDT)
	}
	if results.wins != 1 {
		t.Errorf("Expected win announced once, got %d", results.wins)
	}
}

func TestLevelLoseWhenLivesDepleted(t *testing.T) {
	w := newTestWorld(t)
	results := countResults(w.level)
	level := crossingLevel()
	level.Lives = 1
	w.level.Load(level)
	w.level.Play()

	w.input.HandleClick(geom.V2(1, 0))
	w.run(t, func() bool { return w.level.Result() == ResultLose }, 60)
	if results.losses != 1 || results.wins != 0 {
		t.Errorf("Expected 1 loss and 0 wins, got %d/%d", results.losses, results.wins)
	}
	if !w.input.IsLocked() {
		t.Error("Expected input locked after losing")
	}

	// 结果公布后移除所有折线不会再判定胜利
	w.registry.Lines()[0].Destroy()
	w.registry.Lines()[0].Destroy()
	w.step(testDT)
	if results.wins != 0 || w.level.Result() != ResultLose {
		t.Error("Expected the first decided result to stand")
	}
}

func TestLevelFirstDecisionWins(t *testing.T) {
	w := newTestWorld(t)
	results := countResults(w.level)
	level := crossingLevel()
	level.Lives = 1
	w.level.Load(level)
	w.level.Play()

	w.lives.LoseLife()
	if w.level.PendingResult() != ResultLose {
		t.Fatalf("Expected pending loss, got %v", w.level.PendingResult())
	}
	for _, l := range w.registry.Lines() {
		l.Destroy()
	}
	w.run(t, func() bool { return w.level.Result() != ResultNone }, 30)
	if w.level.Result() != ResultLose || results.wins != 0 || results.losses != 1 {
		t.Errorf("Expected loss to stand, got %v (%d wins, %d losses)", w.level.Result(), results.wins, results.losses)
	}
}

func TestLevelTimeLimit(t *testing.T) {
	w := newTestWorld(t)
	results := countResults(w.level)
	level := crossingLevel()
	level.TimeLimitSeconds = 0.5
	level.ResultDelaySeconds = 0
	w.level.Load(level)

	remaining, limited := w.level.RemainingTime()
	if !limited || remaining != 0.5 {
		t.Errorf("Expected 0.5s remaining, got %f (limited=%v)", remaining, limited)
	}

	w.level.Play()
	ticks := w.run(t, func() bool { return w.level.Result() == ResultLose }, 60)
	if ticks < 29 || ticks > 31 {
		t.Errorf("Expected timeout around tick 30, got %d", ticks)
	}
	if results.losses != 1 {
		t.Errorf("Expected 1 loss, got %d", results.losses)
	}
	if remaining, _ := w.level.RemainingTime(); remaining != 0 {
		t.Errorf("Expected 0s remaining, got %f", remaining)
	}
}

func TestLevelWithoutPlayableLinesWinsImmediately(t *testing.T) {
	w := newTestWorld(t)
	results := countResults(w.level)
	level := configWithLine("dot", pt(1, 1))
	level.ResultDelaySeconds = 0
	if n := w.level.Load(level); n != 0 {
		t.Fatalf("Expected no playable lines, got %d", n)
	}

	w.level.Play()
	if w.level.PendingResult() != ResultWin {
		t.Errorf("Expected pending win, got %v", w.level.PendingResult())
	}
	w.step(0)
	if results.wins != 1 {
		t.Errorf("Expected win announced, got %d", results.wins)
	}
}

func TestLevelUnloadAndRestart(t *testing.T) {
	w := newTestWorld(t)
	results := countResults(w.level)
	w.level.Load(crossingLevel())
	w.level.Play()
	root := w.level.Root()

	w.input.HandleClick(geom.V2(1, 0))
	w.step(testDT)

	w.level.Restart()
	if results.wins != 0 {
		t.Error("Expected unloading not to count as a win")
	}
	if w.em.Exists(root) {
		t.Error("Expected old level root destroyed")
	}
	if w.registry.ActiveCount() != 2 || !w.level.IsPlaying() {
		t.Errorf("Expected restarted level playing with 2 lines, got %d", w.registry.ActiveCount())
	}
	for _, l := range w.registry.Lines() {
		if l.State() != line.StateIdle {
			t.Errorf("Expected %q to start fresh", l.Name())
		}
	}
	if got := w.pool.Stats().CheckedOut; got != 2 {
		t.Errorf("Expected 2 buffers checked out after restart, got %d", got)
	}

	w.level.Unload()
	if w.level.Level() != nil || w.level.IsPlaying() || !w.input.IsLocked() {
		t.Error("Expected level unloaded")
	}
	if w.registry.ActiveCount() != 0 || w.segments.TrackedCount() != 0 {
		t.Errorf("Expected no lines after unload, got %d", w.registry.ActiveCount())
	}
	if got := w.pool.Stats().CheckedOut; got != 0 {
		t.Errorf("Expected no buffers checked out after unload, got %d", got)
	}
	if results.wins != 0 || results.losses != 0 {
		t.Error("Expected no result from unloading")
	}
}

func TestLevelResultString(t *testing.T) {
	if ResultWin.String() != "win" || ResultLose.String() != "lose" || ResultNone.String() != "none" {
		t.Error("Unexpected result names")
	}
}
