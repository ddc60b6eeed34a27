package scenes

import (
	"fmt"
	"log"
	"slices"

	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/game"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/line"
	"github.com/gonewx/linepull/pkg/pool"
	"github.com/gonewx/linepull/pkg/systems"
)

// hapticFlashSeconds 震动反馈的闪屏时长
const hapticFlashSeconds = 0.15

// GameSceneOptions 创建关卡场景所需的协作者
type GameSceneOptions struct {
	LineConfig *config.LineConfig   // 折线参数，nil 时使用默认值
	Player     game.CuePlayer       // 提示音，nil 表示静音
	Settings   *game.SettingsManager // 用户设置（震动开关），可为 nil
	Saves      *game.SaveManager     // 关卡进度，可为 nil
	LevelIDs   []string              // 关卡顺序，用于通关后进入下一关
}

// GameScene 关卡场景
//
// 持有一局游戏的全部状态：实体管理器、缓冲池、折线登记表、生命和各系统。
// 不依赖任何绘制后端，桌面端和终端宿主都通过它推进和查询游戏。
//
// 每帧顺序：
//  1. LineSystem（动画、倒计时）
//  2. HeadCollisionSystem（头部碰撞上报）
//  3. LevelSystem（时间限制、结果延迟）
//  4. 生命进入下一帧，移除标记删除的实体
type GameScene struct {
	entityManager *ecs.EntityManager
	pool          *pool.BufferPool
	registry      *line.Registry
	lives         *game.LivesManager
	lineConfig    *config.LineConfig

	segments *systems.SegmentColliderSystem
	lines    *systems.LineSystem
	heads    *systems.HeadCollisionSystem
	input    *systems.InputSystem
	level    *systems.LevelSystem
	feedback *systems.FeedbackSystem

	saves    *game.SaveManager
	levelIDs []string
	flash    float64

	// 渲染缓存（桌面端）
	render renderCache

	OnLevelChanged event.Signal[*config.LevelConfig]
}

// NewGameScene 创建关卡场景（不加载关卡）
func NewGameScene(opts GameSceneOptions) *GameScene {
	lineConfig := opts.LineConfig
	if lineConfig == nil {
		lineConfig = config.DefaultLineConfig()
	}

	em := ecs.NewEntityManager()
	registry := line.NewRegistry(em)
	lives := game.NewLivesManager(game.MaxLives)
	bufferPool := lineConfig.NewBufferPool()

	s := &GameScene{
		entityManager: em,
		pool:          bufferPool,
		registry:      registry,
		lives:         lives,
		lineConfig:    lineConfig,
		saves:         opts.Saves,
		levelIDs:      slices.Clone(opts.LevelIDs),
	}

	s.segments = systems.NewSegmentColliderSystem(em, registry, lineConfig.SegmentThickness, lineConfig.SegmentExtraLength)
	s.lines = systems.NewLineSystem(em, registry)
	s.heads = systems.NewHeadCollisionSystem(em, registry)
	s.input = systems.NewInputSystem(em, registry)
	s.level = systems.NewLevelSystem(em, registry, lives, s.input, line.Dependencies{
		Pool:     bufferPool,
		Penalty:  lives,
		Settings: lineConfig.Settings(),
	})
	s.feedback = systems.NewFeedbackSystem(registry, opts.Player, opts.Settings)
	s.feedback.AttachLives(lives)
	s.feedback.AttachLevel(s.level)
	s.feedback.OnHaptic.Subscribe(func() { s.flash = hapticFlashSeconds })
	s.level.OnWin.Subscribe(s.recordWin)

	return s
}

// LoadLevel 加载并开始关卡
//
// 返回:
//   - int: 成功创建的折线数
func (s *GameScene) LoadLevel(level *config.LevelConfig) int {
	n := s.level.Load(level)
	if level == nil {
		return n
	}
	if s.saves != nil {
		s.saves.SetLastLevel(level.ID)
	}
	s.render.invalidate()
	s.level.Play()
	s.OnLevelChanged.Emit(level)
	return n
}

// LoadLevelByID 从 data/levels 加载关卡
func (s *GameScene) LoadLevelByID(id string) error {
	level, err := config.LoadLevelConfig(config.LevelPath(id))
	if err != nil {
		return fmt.Errorf("failed to load level %s: %w", id, err)
	}
	s.LoadLevel(level)
	return nil
}

// Update 推进一帧
func (s *GameScene) Update(deltaTime float64) {
	s.lines.Update(deltaTime)
	s.heads.Update(deltaTime)
	s.level.Update(deltaTime)
	s.lives.AdvanceFrame()
	s.entityManager.RemoveMarkedEntities()

	if s.flash > 0 {
		s.flash = max(s.flash-deltaTime, 0)
	}
}

// HandleClick 处理世界坐标上的一次点击
// 结果已公布时点击进入下一关（胜利）或重来（失败）
//
// 返回:
//   - bool: 是否选中了折线或切换了关卡
func (s *GameScene) HandleClick(worldPos geom.Vec3) bool {
	if s.level.Result() != systems.ResultNone {
		return s.Continue()
	}
	_, ok := s.input.HandleClick(worldPos)
	return ok
}

// Continue 结果公布后继续：胜利进入下一关，失败重来
func (s *GameScene) Continue() bool {
	switch s.level.Result() {
	case systems.ResultWin:
		next := s.nextLevelID()
		if next == "" {
			s.level.Restart()
			return true
		}
		if err := s.LoadLevelByID(next); err != nil {
			log.Printf("[GameScene] Error: %v", err)
			s.level.Restart()
		}
		return true
	case systems.ResultLose:
		s.level.Restart()
		return true
	}
	return false
}

// Restart 重新开始当前关卡
func (s *GameScene) Restart() {
	s.level.Restart()
}

func (s *GameScene) nextLevelID() string {
	if s.saves != nil {
		return s.saves.NextLevel(s.levelIDs)
	}
	current := s.level.Level()
	if current == nil || len(s.levelIDs) == 0 {
		return ""
	}
	i := slices.Index(s.levelIDs, current.ID)
	return s.levelIDs[(i+1)%len(s.levelIDs)]
}

// recordWin 记录通关
func (s *GameScene) recordWin() {
	if s.saves == nil || s.level.Level() == nil {
		return
	}
	s.saves.MarkCompleted(s.level.Level().ID, s.lives.CurrentLives())
	if err := s.saves.Save(); err != nil {
		log.Printf("[GameScene] Warning: failed to save progress: %v", err)
	}
}

// SaveOnExit 退出时保存进度
func (s *GameScene) SaveOnExit() bool {
	if s.saves == nil {
		return true
	}
	if err := s.saves.Save(); err != nil {
		log.Printf("[GameScene] Warning: failed to save progress on exit: %v", err)
		return false
	}
	return true
}

// Close 卸载关卡并解除订阅
func (s *GameScene) Close() {
	s.level.Unload()
	s.feedback.Close()
	s.segments.Close()
}

// EntityManager 实体管理器
func (s *GameScene) EntityManager() *ecs.EntityManager { return s.entityManager }

// Registry 折线登记表
func (s *GameScene) Registry() *line.Registry { return s.registry }

// Lives 生命管理器
func (s *GameScene) Lives() *game.LivesManager { return s.lives }

// Level 关卡系统
func (s *GameScene) Level() *systems.LevelSystem { return s.level }

// Input 输入系统
func (s *GameScene) Input() *systems.InputSystem { return s.input }

// Feedback 反馈系统
func (s *GameScene) Feedback() *systems.FeedbackSystem { return s.feedback }

// Pool 点缓冲池
func (s *GameScene) Pool() *pool.BufferPool { return s.pool }

// LineConfig 折线参数
func (s *GameScene) LineConfig() *config.LineConfig { return s.lineConfig }

// FlashIntensity 震动闪屏强度 0..1
func (s *GameScene) FlashIntensity() float64 { return s.flash / hapticFlashSeconds }

// StatusText 一行状态文字：关卡、生命、剩余时间和结果提示
func (s *GameScene) StatusText() string {
	level := s.level.Level()
	if level == nil {
		return "no level loaded"
	}
	text := fmt.Sprintf("Level %s  %s  Lives %d/%d  Lines %d",
		level.ID, level.Name, s.lives.CurrentLives(), s.lives.MaxLives(), s.registry.ActiveCount())
	if remaining, ok := s.level.RemainingTime(); ok {
		text += fmt.Sprintf("  Time %.1fs", remaining)
	}
	switch s.level.Result() {
	case systems.ResultWin:
		text += "  CLEARED! click to continue"
	case systems.ResultLose:
		text += "  FAILED! click to retry"
	}
	return text
}
