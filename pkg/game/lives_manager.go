package game

import (
	"log"

	"github.com/gonewx/linepull/pkg/event"
)

// MaxLives 生命上限
const MaxLives = 5

// LivesManager 生命管理器
//
// 实现 line.PenaltySink：折线碰撞时调用 LoseLife。
// 同一帧内最多扣除一条生命，帧边界由宿主循环调用 AdvanceFrame 推进。
type LivesManager struct {
	maxLives     int
	currentLives int
	lostThisTick bool

	OnLivesChanged  event.Signal[int]
	OnLivesDepleted event.Notify
}

// NewLivesManager 创建生命管理器
// maxLives 不在 1..MaxLives 范围内时使用 MaxLives
func NewLivesManager(maxLives int) *LivesManager {
	if maxLives < 1 || maxLives > MaxLives {
		maxLives = MaxLives
	}
	return &LivesManager{
		maxLives:     maxLives,
		currentLives: maxLives,
	}
}

// LoseLife 扣除一条生命
// 本帧已扣除或已无生命时忽略
func (lm *LivesManager) LoseLife() {
	if lm.lostThisTick || lm.currentLives <= 0 {
		return
	}
	lm.lostThisTick = true
	lm.currentLives--
	log.Printf("[LivesManager] Life lost, %d/%d remaining", lm.currentLives, lm.maxLives)

	lm.OnLivesChanged.Emit(lm.currentLives)
	if lm.currentLives == 0 {
		lm.OnLivesDepleted.Emit()
	}
}

// AdvanceFrame 进入下一帧，允许再次扣除生命
func (lm *LivesManager) AdvanceFrame() {
	lm.lostThisTick = false
}

// ResetLives 恢复满生命
func (lm *LivesManager) ResetLives() {
	lm.currentLives = lm.maxLives
	lm.lostThisTick = false
	lm.OnLivesChanged.Emit(lm.currentLives)
}

// SetMaxLives 修改生命上限并恢复满生命（加载关卡时调用）
// 超出 1..MaxLives 范围时使用 MaxLives
func (lm *LivesManager) SetMaxLives(maxLives int) {
	if maxLives < 1 || maxLives > MaxLives {
		maxLives = MaxLives
	}
	lm.maxLives = maxLives
	lm.ResetLives()
}

// CurrentLives 当前生命数
func (lm *LivesManager) CurrentLives() int { return lm.currentLives }

// MaxLives 生命上限
func (lm *LivesManager) MaxLives() int { return lm.maxLives }

// IsDepleted 生命是否耗尽
func (lm *LivesManager) IsDepleted() bool { return lm.currentLives <= 0 }
