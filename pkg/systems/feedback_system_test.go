package systems

import (
	"testing"

	"github.com/gonewx/linepull/pkg/game"
	"github.com/gonewx/linepull/pkg/geom"
)

// recordingPlayer 记录播放过的提示音
type recordingPlayer struct {
	cues []game.Cue
}

func (p *recordingPlayer) PlayCue(cue game.Cue) bool {
	p.cues = append(p.cues, cue)
	return true
}

func (p *recordingPlayer) count(cue game.Cue) int {
	n := 0
	for _, c := range p.cues {
		if c == cue {
			n++
		}
	}
	return n
}

func newFeedbackWorld(t *testing.T, haptics bool) (*testWorld, *FeedbackSystem, *recordingPlayer) {
	t.Helper()
	w := newTestWorld(t)
	sm, _ := game.NewSettingsManager(nil)
	sm.SetHapticsEnabled(haptics)
	player := &recordingPlayer{}
	fb := NewFeedbackSystem(w.registry, player, sm)
	fb.AttachLives(w.lives)
	fb.AttachLevel(w.level)
	return w, fb, player
}

func TestFeedbackCollisionCues(t *testing.T) {
	w, fb, player := newFeedbackWorld(t, true)
	haptics := 0
	fb.OnHaptic.Subscribe(func() { haptics++ })

	level := crossingLevel()
	level.Lives = 1
	w.level.Load(level)
	w.level.Play()
	w.input.HandleClick(geom.V2(1, 0))
	w.run(t, func() bool { return w.level.Result() == ResultLose }, 60)

	// 碰撞后反向回弹不算重新开始
	if got := player.count(game.CueLineMove); got != 1 {
		t.Errorf("Expected 1 move cue, got %d", got)
	}
	if got := player.count(game.CueLineHit); got != 1 {
		t.Errorf("Expected 1 hit cue, got %d", got)
	}
	if got := player.count(game.CueLifeLost); got != 1 {
		t.Errorf("Expected 1 life lost cue, got %d", got)
	}
	if got := player.count(game.CueLose); got != 1 {
		t.Errorf("Expected 1 lose cue, got %d", got)
	}
	if got := player.count(game.CueWin); got != 0 {
		t.Errorf("Expected no win cue, got %d", got)
	}
	if haptics != 1 {
		t.Errorf("Expected 1 haptic pulse, got %d", haptics)
	}
}

func TestFeedbackHapticsDisabled(t *testing.T) {
	w, fb, player := newFeedbackWorld(t, false)
	haptics := 0
	fb.OnHaptic.Subscribe(func() { haptics++ })

	w.level.Load(crossingLevel())
	w.level.Play()
	w.input.HandleClick(geom.V2(1, 0))
	w.run(t, func() bool { return player.count(game.CueLineHit) == 1 }, 30)
	if haptics != 0 {
		t.Errorf("Expected no haptic pulse when disabled, got %d", haptics)
	}
}

func TestFeedbackWinCue(t *testing.T) {
	w, _, player := newFeedbackWorld(t, true)
	w.level.Load(parallelLevel())
	w.level.Play()
	w.input.HandleClick(geom.V2(0.5, 2))
	w.input.HandleClick(geom.V2(0.5, 0))
	w.run(t, func() bool { return w.level.Result() == ResultWin }, 60)

	if got := player.count(game.CueWin); got != 1 {
		t.Errorf("Expected 1 win cue, got %d", got)
	}
	// 关卡加载时恢复满生命不算失去生命
	if got := player.count(game.CueLifeLost); got != 0 {
		t.Errorf("Expected no life lost cue, got %d", got)
	}
}

func TestFeedbackClose(t *testing.T) {
	w, fb, player := newFeedbackWorld(t, true)
	w.level.Load(crossingLevel())
	w.level.Play()
	fb.Close()

	w.input.HandleClick(geom.V2(1, 0))
	w.run(t, func() bool { return w.lives.CurrentLives() == 2 }, 30)
	if len(player.cues) != 0 {
		t.Errorf("Expected no cues after Close, got %v", player.cues)
	}
}

func TestFeedbackNilPlayer(t *testing.T) {
	w := newTestWorld(t)
	fb := NewFeedbackSystem(w.registry, nil, nil)
	haptics := 0
	fb.OnHaptic.Subscribe(func() { haptics++ })

	w.level.Load(crossingLevel())
	w.level.Play()
	w.input.HandleClick(geom.V2(1, 0))
	w.run(t, func() bool { return w.lives.CurrentLives() == 2 }, 30)
	if haptics != 1 {
		t.Errorf("Expected haptics without settings to default on, got %d", haptics)
	}
}
