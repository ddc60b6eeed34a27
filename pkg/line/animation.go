package line

import (
	"log"

	"github.com/gonewx/linepull/pkg/event"
	"github.com/gonewx/linepull/pkg/geom"
	"github.com/gonewx/linepull/pkg/pool"
)

// 动画默认参数
const (
	DefaultSpeed             = 5.0
	DefaultTailEpsilon       = 0.1
	DefaultHeadArriveEpsilon = 0.01

	// headSnapDistance 回弹时头部距离原位小于此值直接吸附
	headSnapDistance = 0.001
	// visualZThreshold 深度偏移绝对值小于此值视为未设置
	visualZThreshold = 0.001
)

// AnimationConfig 动画控制器参数
type AnimationConfig struct {
	Speed             float64 // 移动速度（单位/秒），前进与回弹共用
	TailEpsilon       float64 // 尾点到达判定距离
	HeadArriveEpsilon float64 // 回弹完成时头点到达判定距离
	VisualZOffset     float64 // 每帧写入所有点的渲染深度（0 表示不写）
}

// DefaultAnimationConfig 返回默认动画参数
func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		Speed:             DefaultSpeed,
		TailEpsilon:       DefaultTailEpsilon,
		HeadArriveEpsilon: DefaultHeadArriveEpsilon,
	}
}

// AnimationController 折线动画状态机
//
// 职责：
//   - 持有当前点序列（从缓冲池借出）和原始点快照
//   - 每帧按 speed × deltaTime 的线性步长前进（回收）或后退（回弹）
//   - 是折线 State 的唯一修改者
//
// 事件：
//   - OnAnimationStarted(forward): 仅在 未播放 -> 播放 时触发
//   - OnAnimationStopped: Stop() 打断播放时触发
//   - OnAnimationCompleted: 回收到不足两点，或回弹到原始形状时触发
//   - OnPositionsChanged: 点序列每次变化时触发
type AnimationController struct {
	speed             float64
	tailEpsilon       float64
	headArriveEpsilon float64
	visualZOffset     float64

	pool      *pool.BufferPool
	points    []geom.Vec3 // 借出的缓冲区
	origin    []geom.Vec3 // 初始化时的快照，不可变
	direction geom.Vec3   // 头部生长方向（单位向量）
	scratch   []geom.Vec3 // 增删点时的临时缓冲区

	initialized bool
	playing     bool
	forward     bool
	state       State

	OnAnimationStarted   event.Signal[bool]
	OnAnimationStopped   event.Notify
	OnAnimationCompleted event.Notify
	OnPositionsChanged   event.Notify
}

// NewAnimationController 创建动画控制器
// 非正的参数使用默认值
func NewAnimationController(cfg AnimationConfig) *AnimationController {
	if cfg.Speed <= 0 {
		cfg.Speed = DefaultSpeed
	}
	if cfg.TailEpsilon <= 0 {
		cfg.TailEpsilon = DefaultTailEpsilon
	}
	if cfg.HeadArriveEpsilon <= 0 {
		cfg.HeadArriveEpsilon = DefaultHeadArriveEpsilon
	}
	return &AnimationController{
		speed:             cfg.Speed,
		tailEpsilon:       cfg.TailEpsilon,
		headArriveEpsilon: cfg.HeadArriveEpsilon,
		visualZOffset:     cfg.VisualZOffset,
		state:             StateUninitialized,
	}
}

// Initialize 捕获初始点序列
//
// 点数少于 2 时记录日志并保持未初始化；重复初始化记录警告并保持原状态。
// bufferPool 可为 nil，此时直接分配数组。
//
// 参数:
//   - initialPoints: 初始点序列（会被复制）
//   - bufferPool: 点数组复用池
//
// 返回:
//   - bool: 是否初始化成功
func (a *AnimationController) Initialize(initialPoints []geom.Vec3, bufferPool *pool.BufferPool) bool {
	if a.initialized {
		log.Printf("[AnimationController] Warning: already initialized, ignoring")
		return false
	}
	if len(initialPoints) < 2 {
		log.Printf("[AnimationController] Error: need at least 2 points, got %d", len(initialPoints))
		return false
	}

	a.pool = bufferPool
	a.origin = make([]geom.Vec3, len(initialPoints))
	copy(a.origin, initialPoints)

	a.points = a.acquire(len(initialPoints))
	copy(a.points, initialPoints)

	n := len(a.origin)
	a.direction = a.origin[n-1].Sub(a.origin[n-2]).Normalized2D()
	if a.direction == (geom.Vec3{}) {
		log.Printf("[AnimationController] Warning: last segment has zero length, head will not advance")
	}

	a.initialized = true
	a.playing = false
	a.state = StateIdle
	return true
}

// Play 开始或改变播放方向
// 已在同方向播放时仅重新确认方向；未初始化或不足两点时为空操作
func (a *AnimationController) Play(forward bool) {
	if !a.initialized || len(a.points) < 2 {
		return
	}

	wasPlaying := a.playing
	a.forward = forward
	a.playing = true
	if forward {
		a.state = StateRetractingForward
	} else {
		a.state = StateRegrowingBackward
	}

	if !wasPlaying {
		a.OnAnimationStarted.Emit(forward)
	}
}

// Stop 停止逐帧更新，并归还临时缓冲区
// 可重复调用
func (a *AnimationController) Stop() {
	if a.playing {
		a.playing = false
		if a.state.IsAnimating() {
			a.state = StateIdle
		}
		a.OnAnimationStopped.Emit()
	}
	a.releaseScratch()
}

// Update 推进一帧
func (a *AnimationController) Update(deltaTime float64) {
	if !a.playing {
		return
	}
	if len(a.points) < 2 {
		a.playing = false
		a.OnAnimationStopped.Emit()
		return
	}

	if a.forward {
		a.animateForward(deltaTime)
	} else {
		a.animateBackward(deltaTime)
	}

	a.applyVisualZOffset()
}

// animateForward 头部沿生长方向前进，尾点向下一个点靠拢，到达后丢弃尾点
func (a *AnimationController) animateForward(deltaTime float64) {
	step := a.speed * deltaTime
	n := len(a.points)

	a.points[n-1] = a.points[n-1].Add(a.direction.Scale(step))
	a.points[0] = geom.MoveTowards(a.points[0], a.points[1], step)
	a.OnPositionsChanged.Emit()

	if geom.Distance2D(a.points[0], a.points[1]) >= a.tailEpsilon {
		return
	}

	a.dropTail()
	a.OnPositionsChanged.Emit()

	if len(a.points) < 2 {
		a.playing = false
		a.state = StatePendingRemoval
		a.OnAnimationCompleted.Emit()
	}
}

// animateBackward 头部退回原位，尾点退回对应的原始点，越过边界后重新插入点
func (a *AnimationController) animateBackward(deltaTime float64) {
	step := a.speed * deltaTime
	last := len(a.points) - 1
	originHead := a.origin[len(a.origin)-1]

	head := a.points[last]
	if geom.Distance2D(head, originHead) > headSnapDistance {
		head = geom.MoveTowards(head, originHead, step)
	} else {
		head = originHead.WithZ(head.Z)
	}
	a.points[last] = head

	targetIndex := len(a.origin) - len(a.points)
	if targetIndex < 0 {
		log.Printf("[AnimationController] Error: %d points exceed original %d, stopping", len(a.points), len(a.origin))
		a.Stop()
		return
	}

	completed := false
	tail := a.points[0]
	targetTail := a.origin[targetIndex]
	if geom.Distance2D(tail, targetTail) > a.tailEpsilon {
		a.points[0] = geom.MoveTowards(tail, targetTail, step)
	} else {
		a.points[0] = targetTail.WithZ(tail.Z)
		if targetIndex > 0 {
			a.growTail(a.points[0])
		} else if geom.Distance2D(head, originHead) < a.headArriveEpsilon {
			copy(a.points, a.origin)
			completed = true
		}
	}

	a.OnPositionsChanged.Emit()

	if completed {
		a.playing = false
		a.state = StateIdle
		a.OnAnimationCompleted.Emit()
	}
}

// dropTail 借出长度减一的缓冲区，复制尾点之后的点，归还旧缓冲区
func (a *AnimationController) dropTail() {
	n := len(a.points)
	a.scratch = a.acquire(n - 1)
	copy(a.scratch, a.points[1:])
	a.swapScratch()
}

// growTail 借出长度加一的缓冲区，在最前面插入 first
func (a *AnimationController) growTail(first geom.Vec3) {
	n := len(a.points)
	a.scratch = a.acquire(n + 1)
	a.scratch[0] = first
	copy(a.scratch[1:], a.points)
	a.swapScratch()
}

// swapScratch 用临时缓冲区替换当前点序列，并归还旧缓冲区
func (a *AnimationController) swapScratch() {
	old := a.points
	a.points = a.scratch
	a.scratch = nil
	a.release(old)
}

func (a *AnimationController) applyVisualZOffset() {
	if a.visualZOffset < visualZThreshold && a.visualZOffset > -visualZThreshold {
		return
	}
	for i := range a.points {
		a.points[i].Z = a.visualZOffset
	}
}

func (a *AnimationController) acquire(length int) []geom.Vec3 {
	if a.pool != nil {
		return a.pool.GetArray(length)
	}
	return make([]geom.Vec3, length)
}

func (a *AnimationController) release(array []geom.Vec3) {
	if a.pool != nil && array != nil {
		a.pool.RecycleArray(array)
	}
}

func (a *AnimationController) releaseScratch() {
	if a.scratch != nil {
		a.release(a.scratch)
		a.scratch = nil
	}
}

// Reset 停止动画、归还所有缓冲区并回到未初始化状态
// 之后可以重新 Initialize
func (a *AnimationController) Reset() {
	a.Stop()
	a.release(a.points)
	a.points = nil
	a.origin = nil
	a.direction = geom.Vec3{}
	a.initialized = false
	if a.state != StateDestroyed {
		a.state = StateUninitialized
	}
}

// MarkDestroyed 归还资源并进入终态
func (a *AnimationController) MarkDestroyed() {
	a.Reset()
	a.state = StateDestroyed
}

// IsInitialized 是否已初始化
func (a *AnimationController) IsInitialized() bool { return a.initialized }

// IsPlaying 是否正在播放
func (a *AnimationController) IsPlaying() bool { return a.playing }

// IsForward 当前播放方向
func (a *AnimationController) IsForward() bool { return a.forward }

// State 当前状态
func (a *AnimationController) State() State { return a.state }

// Direction 头部生长方向
func (a *AnimationController) Direction() geom.Vec3 { return a.direction }

// Speed 移动速度
func (a *AnimationController) Speed() float64 { return a.speed }

// SetSpeed 设置移动速度，非正值被忽略
func (a *AnimationController) SetSpeed(speed float64) {
	if speed > 0 {
		a.speed = speed
	}
}

// VisualZOffset 渲染深度偏移
func (a *AnimationController) VisualZOffset() float64 { return a.visualZOffset }

// SetVisualZOffset 设置渲染深度偏移
func (a *AnimationController) SetVisualZOffset(z float64) { a.visualZOffset = z }

// PointCount 当前点数
func (a *AnimationController) PointCount() int { return len(a.points) }

// PointAt 第 i 个点，越界返回零值和 false
func (a *AnimationController) PointAt(i int) (geom.Vec3, bool) {
	if i < 0 || i >= len(a.points) {
		return geom.Vec3{}, false
	}
	return a.points[i], true
}

// Head 头点（最后一个点）
func (a *AnimationController) Head() (geom.Vec3, bool) {
	return a.PointAt(len(a.points) - 1)
}

// AppendPoints 将当前点追加到 dst 并返回，调用方可复用 dst 避免分配
// 池化缓冲区本身从不外泄
func (a *AnimationController) AppendPoints(dst []geom.Vec3) []geom.Vec3 {
	return append(dst, a.points...)
}

// Points 返回当前点的副本
func (a *AnimationController) Points() []geom.Vec3 {
	return a.AppendPoints(make([]geom.Vec3, 0, len(a.points)))
}

// OriginalPoints 返回原始点的副本
func (a *AnimationController) OriginalPoints() []geom.Vec3 {
	out := make([]geom.Vec3, len(a.origin))
	copy(out, a.origin)
	return out
}
