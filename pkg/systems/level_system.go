package systems

import (
	"log"

	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/game"
	"github.com/gonewx/linepull/pkg/line"
)

// LevelResult 关卡结果
type LevelResult int

const (
	ResultNone LevelResult = iota
	ResultWin
	ResultLose
)

func (r LevelResult) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultLose:
		return "lose"
	}
	return "none"
}

// LevelSystem 关卡管理系统
//
// 职责：
//   - Load: 创建关卡根实体，按配置创建并登记折线，重置生命
//   - Play: 订阅全部移除（胜利）和生命耗尽（失败），解锁输入
//   - 判定胜负后锁定输入，延迟 ResultDelaySeconds 再公布结果
//   - 可选的关卡时间限制，到时判负
//   - Unload: 销毁所有折线和关卡根实体
//
// 胜负各至多公布一次，先判定的结果有效。
type LevelSystem struct {
	entityManager *ecs.EntityManager
	registry      *line.Registry
	lives         *game.LivesManager
	input         *InputSystem
	deps          line.Dependencies

	level         *config.LevelConfig
	root          ecs.EntityID
	playing       bool
	pending       LevelResult
	result        LevelResult
	timeRemaining float64
	resultTimer   *line.ExpiryTimer

	allRemoved event.Subscription
	depleted   event.Subscription
	expired    event.Subscription

	OnLevelLoaded event.Signal[*config.LevelConfig]
	OnWin         event.Notify
	OnLose        event.Notify
}

// NewLevelSystem 创建关卡管理系统
//
// 参数:
//   - em: 实体管理器
//   - registry: 折线登记表
//   - lives: 生命管理器（同时作为折线的惩罚接收方）
//   - input: 输入系统（判定结果后锁定），可为 nil
//   - deps: 折线共用依赖，Penalty 为空时使用 lives
func NewLevelSystem(em *ecs.EntityManager, registry *line.Registry, lives *game.LivesManager, input *InputSystem, deps line.Dependencies) *LevelSystem {
	if deps.Penalty == nil {
		deps.Penalty = lives
	}
	s := &LevelSystem{
		entityManager: em,
		registry:      registry,
		lives:         lives,
		input:         input,
		deps:          deps,
		resultTimer:   line.NewExpiryTimer(),
	}
	s.expired = s.resultTimer.OnExpired.Subscribe(s.announce)
	return s
}

// Load 加载关卡（会先卸载当前关卡）
//
// 返回:
//   - int: 成功创建的折线数
func (s *LevelSystem) Load(level *config.LevelConfig) int {
	s.Unload()
	if level == nil {
		log.Printf("[LevelSystem] Error: level config is nil")
		return 0
	}

	s.level = level
	s.root = s.entityManager.CreateEntity()
	s.lives.SetMaxLives(level.Lives)
	s.timeRemaining = level.TimeLimitSeconds
	s.pending = ResultNone
	s.result = ResultNone

	lines := s.registry.InitializeAll(level.Geometry(), s.root, s.deps)
	log.Printf("[LevelSystem] Loaded level %s (%s): %d lines, %d lives", level.ID, level.Name, len(lines), level.Lives)
	s.OnLevelLoaded.Emit(level)
	return len(lines)
}

// Play 开始关卡
// 没有任何有效折线时直接判定胜利
func (s *LevelSystem) Play() {
	if s.level == nil || s.playing || s.result != ResultNone {
		return
	}

	s.allRemoved = s.registry.OnAllEntitiesRemoved.Subscribe(func() { s.decide(ResultWin) })
	s.depleted = s.lives.OnLivesDepleted.Subscribe(func() { s.decide(ResultLose) })
	s.playing = true
	if s.input != nil {
		s.input.Unlock()
	}

	if s.registry.ActiveCount() == 0 {
		log.Printf("[LevelSystem] Warning: level %s has no playable lines", s.level.ID)
		s.decide(ResultWin)
	}
}

// Update 推进时间限制和结果延迟
func (s *LevelSystem) Update(deltaTime float64) {
	if !s.playing {
		return
	}

	if s.level.TimeLimitSeconds > 0 && s.pending == ResultNone {
		s.timeRemaining -= deltaTime
		if s.timeRemaining <= 0 {
			s.timeRemaining = 0
			log.Printf("[LevelSystem] Time limit reached")
			s.decide(ResultLose)
		}
	}

	s.resultTimer.Update(deltaTime)
}

// decide 判定结果，锁定输入并开始结果延迟
func (s *LevelSystem) decide(result LevelResult) {
	if !s.playing || s.pending != ResultNone || s.result != ResultNone {
		return
	}
	s.pending = result
	if s.input != nil {
		s.input.Lock()
	}
	log.Printf("[LevelSystem] Level %s decided: %s", s.level.ID, result)
	s.resultTimer.Start(s.level.ResultDelaySeconds)
}

// announce 公布结果
func (s *LevelSystem) announce() {
	s.result = s.pending
	s.pending = ResultNone
	s.playing = false
	s.unsubscribe()

	switch s.result {
	case ResultWin:
		s.OnWin.Emit()
	case ResultLose:
		s.OnLose.Emit()
	}
}

func (s *LevelSystem) unsubscribe() {
	s.registry.OnAllEntitiesRemoved.Unsubscribe(s.allRemoved)
	s.lives.OnLivesDepleted.Unsubscribe(s.depleted)
	s.allRemoved, s.depleted = 0, 0
}

// Unload 卸载关卡：销毁所有折线和根实体
func (s *LevelSystem) Unload() {
	s.unsubscribe()
	s.resultTimer.Stop()
	s.registry.DestroyAll()
	if s.root != ecs.InvalidEntity {
		s.entityManager.DestroyEntity(s.root)
		s.root = ecs.InvalidEntity
	}
	s.entityManager.RemoveMarkedEntities()
	if s.input != nil {
		s.input.Lock()
	}

	s.level = nil
	s.playing = false
	s.pending = ResultNone
	s.result = ResultNone
	s.timeRemaining = 0
}

// Restart 重新加载并开始当前关卡
func (s *LevelSystem) Restart() {
	level := s.level
	if level == nil {
		return
	}
	s.Load(level)
	s.Play()
}

// Level 当前关卡配置
func (s *LevelSystem) Level() *config.LevelConfig { return s.level }

// Root 关卡根实体
func (s *LevelSystem) Root() ecs.EntityID { return s.root }

// IsPlaying 是否正在进行（结果公布后为 false）
func (s *LevelSystem) IsPlaying() bool { return s.playing }

// Result 已公布的结果
func (s *LevelSystem) Result() LevelResult { return s.result }

// PendingResult 已判定但尚未公布的结果
func (s *LevelSystem) PendingResult() LevelResult { return s.pending }

// RemainingTime 剩余时间（秒），不限时返回 0 和 false
func (s *LevelSystem) RemainingTime() (float64, bool) {
	if s.level == nil || s.level.TimeLimitSeconds <= 0 {
		return 0, false
	}
	return s.timeRemaining, true
}
