package game

import (
	"log"

	"github.com/gonewx/linepull/internal/audio"
	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 桌面端提示音管理器（ebiten/audio）
// 职责：
//   - 按需合成提示音并缓存播放器
//   - 从 SettingsManager 读取提示音开关和音量
//
// audio.Context 为 nil 时进入静音模式，所有播放返回 false。
type AudioManager struct {
	context         *ebitenaudio.Context
	settingsManager *SettingsManager            // 可为 nil
	players         map[Cue]*ebitenaudio.Player // 播放器缓存（提示音 -> 播放器）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文（可为 nil，静音模式）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(ctx *ebitenaudio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		players:         make(map[Cue]*ebitenaudio.Player),
	}
}

// PlayCue 播放提示音
// 提示音关闭、静音模式或未知提示音时返回 false
func (am *AudioManager) PlayCue(cue Cue) bool {
	if !am.soundEnabled() {
		return false
	}

	player := am.getPlayer(cue)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind cue %s: %v", cue, err)
	}
	player.Play()
	return true
}

// SetSoundVolume 设置提示音音量
// 更新 SettingsManager 并应用到已缓存的播放器
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.players {
		player.SetVolume(am.getSoundVolume())
	}
}

// GetSoundVolume 获取当前提示音音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// Preload 预先合成所有提示音，避免首次播放时的延迟
func (am *AudioManager) Preload() {
	for _, cue := range AllCues() {
		am.getPlayer(cue)
	}
	log.Printf("[AudioManager] Preloaded %d cues", len(am.players))
}

func (am *AudioManager) soundEnabled() bool {
	if am.context == nil {
		return false
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}
	return true
}

// getPlayer 获取或合成提示音播放器
func (am *AudioManager) getPlayer(cue Cue) *ebitenaudio.Player {
	if player, exists := am.players[cue]; exists {
		return player
	}
	if am.context == nil {
		return nil
	}

	tones := CueTones(cue)
	if len(tones) == 0 {
		log.Printf("[AudioManager] Warning: Cue not found: %s", cue)
		return nil
	}

	stream := audio.NewToneStream(am.context.SampleRate(), tones)
	player, err := am.context.NewPlayer(stream)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to create player for cue %s: %v", cue, err)
		return nil
	}
	am.players[cue] = player
	return player
}

// getSoundVolume 获取提示音音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8 // 默认值
}
