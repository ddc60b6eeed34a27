package line

import (
	"log"

	"github.com/gonewx/linepull/pkg/ecs"
	"github.com/gonewx/linepull/pkg/event"
)

// LatchPolicy 碰撞锁存策略
type LatchPolicy string

// LatchSingleFire 每个武装周期至多触发一次（目前唯一支持的策略）
const LatchSingleFire LatchPolicy = "single-fire"

// OwnerResolver 将碰撞体追溯到其所属折线
type OwnerResolver interface {
	// ResolveOwner 返回碰撞体所属的折线实体；无法追溯到任何折线时返回 false
	ResolveOwner(collider ecs.EntityID) (ecs.EntityID, bool)
}

// HeadCollisionDetector 检测折线头部碰到其他折线
//
// 在 Arm() 与下一次 Disarm()/Reset() 之间，OnHeadCollision 至多触发一次，
// 同一帧或后续帧的重复重叠都被内部锁存吞掉。
// 自身几何（包括挂在同一折线下的线段碰撞体）一律忽略。
type HeadCollisionDetector struct {
	owner       ecs.EntityID
	resolver    OwnerResolver
	initialized bool
	armed       bool
	hasFired    bool

	// OnHeadCollision 参数为对方折线实体ID
	OnHeadCollision event.Signal[ecs.EntityID]
}

// NewHeadCollisionDetector 创建检测器
func NewHeadCollisionDetector() *HeadCollisionDetector {
	return &HeadCollisionDetector{}
}

// Initialize 绑定所属折线
func (d *HeadCollisionDetector) Initialize(owner ecs.EntityID, resolver OwnerResolver) {
	if d.initialized {
		log.Printf("[HeadCollisionDetector] Warning: detector for line %d already initialized", d.owner)
		return
	}
	if resolver == nil {
		log.Printf("[HeadCollisionDetector] Error: owner resolver is nil for line %d", owner)
		return
	}
	d.owner = owner
	d.resolver = resolver
	d.initialized = true
}

// Arm 开始一个检测周期
// 已武装时记录警告并保持锁存状态
func (d *HeadCollisionDetector) Arm() {
	if !d.initialized {
		return
	}
	if d.armed {
		log.Printf("[HeadCollisionDetector] Warning: line %d already armed", d.owner)
		return
	}
	d.armed = true
}

// Disarm 结束检测周期，并清除锁存
func (d *HeadCollisionDetector) Disarm() {
	d.armed = false
	d.hasFired = false
}

// Release 解除与所属折线的绑定（折线清理时调用），之后可重新 Initialize
func (d *HeadCollisionDetector) Release() {
	d.Disarm()
	d.resolver = nil
	d.initialized = false
}

// Reset 清除锁存，允许再次检测
func (d *HeadCollisionDetector) Reset() {
	d.hasFired = false
}

// Report 上报头部与某个碰撞体的重叠
//
// 参数:
//   - collider: 与头部重叠的碰撞体实体
//
// 返回:
//   - bool: 本次上报是否触发了 OnHeadCollision
func (d *HeadCollisionDetector) Report(collider ecs.EntityID) bool {
	if !d.initialized || !d.armed || d.hasFired {
		return false
	}

	other, ok := d.resolver.ResolveOwner(collider)
	if !ok || other == d.owner {
		return false
	}

	d.hasFired = true
	d.OnHeadCollision.Emit(other)
	return true
}

// IsArmed 是否处于武装状态
func (d *HeadCollisionDetector) IsArmed() bool { return d.armed }

// HasFired 本周期是否已触发
func (d *HeadCollisionDetector) HasFired() bool { return d.hasFired }

// Owner 所属折线
func (d *HeadCollisionDetector) Owner() ecs.EntityID { return d.owner }
