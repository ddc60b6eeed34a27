package line

import (
	"log"

	"github.com/gonewx/linepull/pkg/components"
	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/pool"
)

// 折线默认参数
const (
	DefaultDestroyDelaySeconds = 5.0
	DefaultHeadRadius          = 0.15
	DefaultPickRadius          = 0.3
)

// PenaltySink 碰撞惩罚的接收方（扣除生命）
type PenaltySink interface {
	LoseLife()
}

// Settings 折线共用参数
type Settings struct {
	Animation           AnimationConfig
	DestroyDelaySeconds float64 // 选中后到强制销毁的倒计时
	HeadRadius          float64 // 头部碰撞半径
	PickRadius          float64 // 点击容差
	SnapSize            float64 // 加载时网格吸附尺寸（0 表示不吸附）
}

// DefaultSettings 返回默认参数
func DefaultSettings() Settings {
	return Settings{
		Animation:           DefaultAnimationConfig(),
		DestroyDelaySeconds: DefaultDestroyDelaySeconds,
		HeadRadius:          DefaultHeadRadius,
		PickRadius:          DefaultPickRadius,
	}
}

// Dependencies 创建折线需要的外部协作者
type Dependencies struct {
	Pool     *pool.BufferPool // 点数组复用池，可为 nil
	Penalty  PenaltySink      // 碰撞惩罚，可为 nil
	Settings Settings
}

// Source 一条折线的来源几何
type Source struct {
	Name                string
	Points              []geom.Vec3
	Speed               float64 // 覆盖默认速度（0 表示使用默认值）
	DestroyDelaySeconds float64 // 覆盖默认倒计时（0 表示使用默认值）
}

// Line 一条可回收折线（PolylineEntity）
//
// 折线独占自己的动画控制器、碰撞检测器、倒计时和借出的点缓冲区；
// 登记表只保存非拥有的查找引用。
type Line struct {
	id       ecs.EntityID
	name     string
	em       *ecs.EntityManager
	pool     *pool.BufferPool
	penalty  PenaltySink
	registry *Registry

	source       []geom.Vec3
	destroyDelay float64

	animation *AnimationController
	detector  *HeadCollisionDetector
	timer     *ExpiryTimer

	initialized bool
	destroyed   bool

	hasCollidedThisCycle       bool
	hasAppliedPenaltyThisCycle bool

	unsubscribers []func()

	// OnCleanedUp 在 Cleanup 时触发，外部系统借此解除对本折线的订阅
	OnCleanedUp event.Signal[*Line]
	// OnDestroyed 在折线销毁时触发（登记表移除之前）
	OnDestroyed event.Signal[*Line]
}

// NewLine 创建折线实体（尚未初始化）
//
// 在 ECS 中创建实体并挂载 PolylineComponent、ClickableComponent，
// parent 非零时挂载 ParentComponent。
//
// 参数:
//   - em: 实体管理器
//   - deps: 复用池、惩罚接收方和默认参数
//   - src: 来源几何（点会被复制）
//   - parent: 父实体（通常为关卡根实体）
//
// 返回:
//   - *Line: 折线实例
func NewLine(em *ecs.EntityManager, deps Dependencies, src Source, parent ecs.EntityID) *Line {
	settings := deps.Settings
	animCfg := settings.Animation
	if src.Speed > 0 {
		animCfg.Speed = src.Speed
	}
	delay := settings.DestroyDelaySeconds
	if src.DestroyDelaySeconds > 0 {
		delay = src.DestroyDelaySeconds
	}
	if delay <= 0 {
		delay = DefaultDestroyDelaySeconds
	}

	points := make([]geom.Vec3, len(src.Points))
	for i, p := range src.Points {
		points[i] = geom.Snap(p, settings.SnapSize)
	}

	l := &Line{
		name:         src.Name,
		em:           em,
		pool:         deps.Pool,
		penalty:      deps.Penalty,
		source:       points,
		destroyDelay: delay,
		animation:    NewAnimationController(animCfg),
		detector:     NewHeadCollisionDetector(),
		timer:        NewExpiryTimer(),
	}

	if em != nil {
		l.id = em.CreateEntity()
		headRadius := settings.HeadRadius
		if headRadius <= 0 {
			headRadius = DefaultHeadRadius
		}
		pickRadius := settings.PickRadius
		if pickRadius <= 0 {
			pickRadius = DefaultPickRadius
		}
		ecs.AddComponent(em, l.id, &components.PolylineComponent{Name: src.Name, HeadRadius: headRadius})
		ecs.AddComponent(em, l.id, &components.ClickableComponent{PickRadius: pickRadius})
		if parent != ecs.InvalidEntity {
			ecs.AddComponent(em, l.id, &components.ParentComponent{Parent: parent})
		}
	}
	return l
}

// Initialize 初始化折线并登记
//
// 以下情况记录日志并保持未初始化：已销毁、已初始化、缺少登记表或实体管理器、点数不足 2。
//
// 返回:
//   - bool: 是否初始化成功
func (l *Line) Initialize(registry *Registry) bool {
	if l.destroyed {
		log.Printf("[Line] Warning: cannot initialize destroyed line %q", l.name)
		return false
	}
	if l.initialized {
		log.Printf("[Line] Warning: %q is already initialized", l.name)
		return false
	}
	if registry == nil || l.em == nil {
		log.Printf("[Line] Error: cannot initialize %q: registry or entity manager is missing", l.name)
		return false
	}
	if len(l.source) < 2 {
		log.Printf("[Line] Warning: cannot initialize %q: has less than 2 points (%d)", l.name, len(l.source))
		return false
	}
	if !l.animation.Initialize(l.source, l.pool) {
		return false
	}

	l.registry = registry
	l.detector.Initialize(l.id, registry)
	l.subscribe()

	l.hasCollidedThisCycle = false
	l.hasAppliedPenaltyThisCycle = false
	l.initialized = true
	l.syncClickable()

	registry.Register(l)
	return true
}

func (l *Line) subscribe() {
	hit := l.detector.OnHeadCollision.Subscribe(l.handleHeadCollision)
	done := l.animation.OnAnimationCompleted.Subscribe(l.handleAnimationCompleted)
	expired := l.timer.OnExpired.Subscribe(l.handleExpired)
	l.unsubscribers = append(l.unsubscribers,
		func() { l.detector.OnHeadCollision.Unsubscribe(hit) },
		func() { l.animation.OnAnimationCompleted.Unsubscribe(done) },
		func() { l.timer.OnExpired.Unsubscribe(expired) },
	)
}

func (l *Line) unsubscribe() {
	for _, fn := range l.unsubscribers {
		fn()
	}
	l.unsubscribers = l.unsubscribers[:0]
}

// OnSelected 玩家选中折线：开始回收、启动倒计时并武装碰撞检测
// 未初始化或不可点击时为空操作
func (l *Line) OnSelected(worldPosition geom.Vec3) {
	if !l.initialized || !l.IsClickable() {
		return
	}

	l.hasCollidedThisCycle = false
	l.hasAppliedPenaltyThisCycle = false
	if !l.detector.IsArmed() {
		l.detector.Reset()
		l.detector.Arm()
	}

	l.timer.Start(l.destroyDelay)
	l.animation.Play(true)
	l.syncClickable()
	log.Printf("[Line] %q selected at (%.2f, %.2f)", l.name, worldPosition.X, worldPosition.Y)
}

// handleHeadCollision 头部碰到其他折线：停止倒计时、反向回弹、扣除一次生命
func (l *Line) handleHeadCollision(other ecs.EntityID) {
	if l.hasCollidedThisCycle || l.animation.State() != StateRetractingForward {
		return
	}
	l.hasCollidedThisCycle = true

	l.timer.Stop()
	l.animation.Play(false)
	l.syncClickable()

	if !l.hasAppliedPenaltyThisCycle {
		l.hasAppliedPenaltyThisCycle = true
		if l.penalty != nil {
			l.penalty.LoseLife()
		}
	}
	log.Printf("[Line] %q head hit line %d, regrowing", l.name, other)
}

func (l *Line) handleAnimationCompleted() {
	switch l.animation.State() {
	case StatePendingRemoval:
		l.timer.Stop()
		l.Destroy()
	case StateIdle:
		l.detector.Disarm()
		l.hasCollidedThisCycle = false
		l.syncClickable()
	}
}

func (l *Line) handleExpired() {
	log.Printf("[Line] %q expired, destroying", l.name)
	l.Destroy()
}

// Update 推进一帧：先动画后倒计时
func (l *Line) Update(deltaTime float64) {
	if !l.initialized {
		return
	}
	l.animation.Update(deltaTime)
	if !l.initialized {
		return
	}
	l.timer.Update(deltaTime)
}

// Cleanup 停止倒计时、检测和动画，归还缓冲区，回到未初始化状态
// 可重复调用；之后可以重新 Initialize
func (l *Line) Cleanup() {
	if !l.initialized {
		return
	}

	l.timer.Stop()
	l.detector.Release()
	l.animation.Stop()
	l.unsubscribe()
	l.animation.Reset()

	l.hasCollidedThisCycle = false
	l.hasAppliedPenaltyThisCycle = false
	l.initialized = false
	l.syncClickable()

	l.OnCleanedUp.Emit(l)
}

// Destroy 销毁折线：清理、释放 ECS 实体、从登记表移除
// 只生效一次
func (l *Line) Destroy() {
	if l.destroyed {
		return
	}
	l.Cleanup()
	l.destroyed = true
	l.animation.MarkDestroyed()
	if l.em != nil {
		l.em.DestroyEntity(l.id)
	}

	l.OnDestroyed.Emit(l)
	if l.registry != nil {
		l.registry.Unregister(l)
	}

	l.OnCleanedUp.Clear()
	l.OnDestroyed.Clear()
	l.animation.OnAnimationStarted.Clear()
	l.animation.OnAnimationStopped.Clear()
	l.animation.OnAnimationCompleted.Clear()
	l.animation.OnPositionsChanged.Clear()
	l.detector.OnHeadCollision.Clear()
	l.timer.OnExpired.Clear()
}

// IsClickable 可以被选中：已初始化，且不处于碰撞后的回弹或待移除状态
func (l *Line) IsClickable() bool {
	if !l.initialized || l.destroyed || l.hasCollidedThisCycle {
		return false
	}
	switch l.animation.State() {
	case StateRegrowingBackward, StatePendingRemoval, StateDestroyed:
		return false
	}
	return true
}

// syncClickable 把可点击状态写入 ClickableComponent
func (l *Line) syncClickable() {
	if l.em == nil {
		return
	}
	if c, ok := ecs.GetComponent[*components.ClickableComponent](l.em, l.id); ok {
		c.IsEnabled = l.IsClickable()
	}
}

// ID ECS 实体ID
func (l *Line) ID() ecs.EntityID { return l.id }

// Name 折线名称
func (l *Line) Name() string { return l.name }

// State 生命周期状态
func (l *Line) State() State { return l.animation.State() }

// IsInitialized 是否已初始化
func (l *Line) IsInitialized() bool { return l.initialized }

// IsDestroyed 是否已销毁
func (l *Line) IsDestroyed() bool { return l.destroyed }

// HasCollidedThisCycle 本回收周期是否已碰撞
func (l *Line) HasCollidedThisCycle() bool { return l.hasCollidedThisCycle }

// Animation 动画控制器
func (l *Line) Animation() *AnimationController { return l.animation }

// Detector 头部碰撞检测器
func (l *Line) Detector() *HeadCollisionDetector { return l.detector }

// Timer 销毁倒计时
func (l *Line) Timer() *ExpiryTimer { return l.timer }

// Points 当前点的副本
func (l *Line) Points() []geom.Vec3 { return l.animation.Points() }

// Head 头点
func (l *Line) Head() (geom.Vec3, bool) { return l.animation.Head() }

// DestroyDelay 倒计时秒数
func (l *Line) DestroyDelay() float64 { return l.destroyDelay }
