package game

import (
	"time"

	"github.com/gonewx/linepull/internal/audio"
)

// Cue 反馈提示音标识
type Cue string

const (
	CueLineMove Cue = "line_move" // 折线开始移动（选中或回弹）
	CueLineHit  Cue = "line_hit"  // 头部撞到其他折线
	CueLifeLost Cue = "life_lost" // 扣除一条生命
	CueWin      Cue = "win"       // 关卡胜利
	CueLose     Cue = "lose"      // 关卡失败
)

// CuePlayer 提示音播放接口
// 桌面端使用 AudioManager（ebiten），终端使用 BeepCuePlayer
type CuePlayer interface {
	PlayCue(cue Cue) bool
}

// cueTones 每个提示音的音符序列
var cueTones = map[Cue][]audio.Tone{
	CueLineMove: {
		{Frequency: 660, Duration: 40 * time.Millisecond, Volume: 0.4},
	},
	CueLineHit: {
		{Frequency: 180, Duration: 90 * time.Millisecond, Volume: 0.8},
	},
	CueLifeLost: {
		{Frequency: 330, Duration: 80 * time.Millisecond, Volume: 0.6},
		{Frequency: 220, Duration: 120 * time.Millisecond, Volume: 0.6},
	},
	CueWin: {
		{Frequency: 523, Duration: 100 * time.Millisecond, Volume: 0.6},
		{Frequency: 659, Duration: 100 * time.Millisecond, Volume: 0.6},
		{Frequency: 784, Duration: 200 * time.Millisecond, Volume: 0.6},
	},
	CueLose: {
		{Frequency: 392, Duration: 150 * time.Millisecond, Volume: 0.6},
		{Duration: 30 * time.Millisecond},
		{Frequency: 262, Duration: 300 * time.Millisecond, Volume: 0.6},
	},
}

// CueTones 返回提示音的音符序列，未知提示音返回 nil
func CueTones(cue Cue) []audio.Tone {
	return cueTones[cue]
}

// AllCues 返回所有已定义的提示音
func AllCues() []Cue {
	return []Cue{CueLineMove, CueLineHit, CueLifeLost, CueWin, CueLose}
}
