package main

import (
	"log"

	"github.com/gonewx/linepull/internal/beepaudio"
	"github.com/gonewx/linepull/pkg/game"
)

// beepCuePlayer 终端提示音播放器（beep + 系统扬声器）
// 扬声器打开失败时静音运行
type beepCuePlayer struct {
	player          *beepaudio.BeepPlayer
	settingsManager *game.SettingsManager // 可为 nil
}

func newBeepCuePlayer(sm *game.SettingsManager, enableAudio bool) *beepCuePlayer {
	p := &beepCuePlayer{
		player:          beepaudio.NewBeepPlayer(),
		settingsManager: sm,
	}
	if !enableAudio {
		return p
	}
	if err := p.player.Initialize(); err != nil {
		log.Printf("[BeepCuePlayer] Warning: audio disabled: %v", err)
	}
	return p
}

// PlayCue 实现 game.CuePlayer
func (p *beepCuePlayer) PlayCue(cue game.Cue) bool {
	volume := 0.8
	if p.settingsManager != nil {
		settings := p.settingsManager.GetSettings()
		if !settings.SoundEnabled {
			return false
		}
		volume = settings.SoundVolume
	}

	tones := game.CueTones(cue)
	if len(tones) == 0 {
		return false
	}
	return p.player.Play(tones, volume)
}

func (p *beepCuePlayer) Close() {
	p.player.Close()
}
