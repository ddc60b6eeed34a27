// Package line 实现可回收折线障碍物的生命周期与动画状态机
//
// 一条折线被选中后从尾部向头部回收；头部碰到其他折线时反向回弹、扣除生命，
// 回弹到原始形状后恢复空闲。回收完成或倒计时超时的折线被销毁并从登记表移除，
// 登记表在活动折线数归零时发出“全部移除”信号。
//
// 所有逻辑在宿主游戏循环的每帧回调中单线程执行，不加锁。
package line

// State 折线生命周期状态
type State int

const (
	StateUninitialized State = iota
	StateIdle
	StateRetractingForward
	StateRegrowingBackward
	StatePendingRemoval
	StateDestroyed
)

// String 返回状态名（用于日志）
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateIdle:
		return "Idle"
	case StateRetractingForward:
		return "RetractingForward"
	case StateRegrowingBackward:
		return "RegrowingBackward"
	case StatePendingRemoval:
		return "PendingRemoval"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// IsAnimating 是否处于动画状态
func (s State) IsAnimating() bool {
	return s == StateRetractingForward || s == StateRegrowingBackward
}
