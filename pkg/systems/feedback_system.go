package systems

import (
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/game"
	"github.com/gonewx/linepull/pkg/line"
)

// lineHooks 单条折线上的反馈订阅
type lineHooks struct {
	started event.Subscription
	hit     event.Subscription
	cleaned event.Subscription
}

// FeedbackSystem 声音与震动反馈
//
// 订阅每条折线的开始移动、头部碰撞，以及生命和关卡结果事件，
// 通过 CuePlayer 播放提示音。player 可为 nil（静音）。
// 震动反馈以 OnHaptic 信号交给宿主实现（桌面端闪屏，终端反色）。
type FeedbackSystem struct {
	registry *line.Registry
	player   game.CuePlayer
	settings *game.SettingsManager

	hooks      map[ecs.EntityID]lineHooks
	registered event.Subscription
	cleanups   []func()

	OnHaptic event.Notify
}

// NewFeedbackSystem 创建反馈系统并挂接已登记的折线
func NewFeedbackSystem(registry *line.Registry, player game.CuePlayer, settings *game.SettingsManager) *FeedbackSystem {
	s := &FeedbackSystem{
		registry: registry,
		player:   player,
		settings: settings,
		hooks:    make(map[ecs.EntityID]lineHooks),
	}
	s.registered = registry.OnRegistered.Subscribe(s.attach)
	for _, l := range registry.Lines() {
		s.attach(l)
	}
	return s
}

func (s *FeedbackSystem) attach(l *line.Line) {
	if _, ok := s.hooks[l.ID()]; ok {
		return
	}
	s.hooks[l.ID()] = lineHooks{
		started: l.Animation().OnAnimationStarted.Subscribe(func(bool) { s.play(game.CueLineMove) }),
		hit: l.Detector().OnHeadCollision.Subscribe(func(ecs.EntityID) {
			s.play(game.CueLineHit)
			s.haptic()
		}),
		cleaned: l.OnCleanedUp.Subscribe(s.detach),
	}
}

func (s *FeedbackSystem) detach(l *line.Line) {
	h, ok := s.hooks[l.ID()]
	if !ok {
		return
	}
	l.Animation().OnAnimationStarted.Unsubscribe(h.started)
	l.Detector().OnHeadCollision.Unsubscribe(h.hit)
	l.OnCleanedUp.Unsubscribe(h.cleaned)
	delete(s.hooks, l.ID())
}

// AttachLives 生命减少时播放提示音
func (s *FeedbackSystem) AttachLives(lives *game.LivesManager) {
	// 恢复满生命也会触发 OnLivesChanged，只有低于上限才算失去
	sub := lives.OnLivesChanged.Subscribe(func(n int) {
		if n < lives.MaxLives() {
			s.play(game.CueLifeLost)
		}
	})
	s.cleanups = append(s.cleanups, func() { lives.OnLivesChanged.Unsubscribe(sub) })
}

// AttachLevel 关卡胜负公布时播放提示音
func (s *FeedbackSystem) AttachLevel(level *LevelSystem) {
	win := level.OnWin.Subscribe(func() { s.play(game.CueWin) })
	lose := level.OnLose.Subscribe(func() { s.play(game.CueLose) })
	s.cleanups = append(s.cleanups, func() {
		level.OnWin.Unsubscribe(win)
		level.OnLose.Unsubscribe(lose)
	})
}

func (s *FeedbackSystem) play(cue game.Cue) {
	if s.player == nil {
		return
	}
	s.player.PlayCue(cue)
}

func (s *FeedbackSystem) haptic() {
	if s.settings != nil && !s.settings.GetSettings().HapticsEnabled {
		return
	}
	s.OnHaptic.Emit()
}

// Close 解除所有订阅
func (s *FeedbackSystem) Close() {
	s.registry.OnRegistered.Unsubscribe(s.registered)
	for _, l := range s.registry.Lines() {
		s.detach(l)
	}
	for _, fn := range s.cleanups {
		fn()
	}
	s.cleanups = nil
}
