package line

import "github.com/gonewx/linepull/pkg/event"

// ExpiryTimer 可取消的倒计时
//
// Start 总是取消之前的倒计时并重新开始；未被 Stop 的倒计时到期时触发一次 OnExpired。
// 倒计时由宿主循环逐帧调用 Update 推进，没有隐藏的全局计时器。
type ExpiryTimer struct {
	delay    float64
	elapsed  float64
	counting bool

	OnExpired event.Notify
}

// NewExpiryTimer 创建计时器
func NewExpiryTimer() *ExpiryTimer {
	return &ExpiryTimer{}
}

// Start 开始 delaySeconds 秒的倒计时（自动取消之前的倒计时）
func (t *ExpiryTimer) Start(delaySeconds float64) {
	t.Stop()
	if delaySeconds < 0 {
		delaySeconds = 0
	}
	t.delay = delaySeconds
	t.elapsed = 0
	t.counting = true
}

// Stop 取消倒计时，未在计时时为空操作
func (t *ExpiryTimer) Stop() {
	t.counting = false
	t.elapsed = 0
}

// Update 推进倒计时
func (t *ExpiryTimer) Update(deltaTime float64) {
	if !t.counting {
		return
	}
	t.elapsed += deltaTime
	if t.elapsed < t.delay {
		return
	}
	t.counting = false
	t.OnExpired.Emit()
}

// IsCounting 是否正在倒计时
func (t *ExpiryTimer) IsCounting() bool { return t.counting }

// Remaining 剩余秒数，未计时返回 0
func (t *ExpiryTimer) Remaining() float64 {
	if !t.counting {
		return 0
	}
	if r := t.delay - t.elapsed; r > 0 {
		return r
	}
	return 0
}

// Elapsed 已经过的秒数
func (t *ExpiryTimer) Elapsed() float64 { return t.elapsed }
