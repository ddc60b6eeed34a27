// Package event 提供单线程的观察者列表
//
// 组件通过 Signal 对外广播生命周期事件，订阅者在 Emit 时按订阅顺序同步调用。
// 所有订阅在实体销毁时必须显式解除（Unsubscribe 或 Clear），避免回调到已销毁对象。
package event

// Subscription 订阅句柄，用于解除订阅
type Subscription uint64

type handler[T any] struct {
	id Subscription
	fn func(T)
}

// Signal 带一个参数的事件
type Signal[T any] struct {
	nextID   Subscription
	handlers []handler[T]
	emitting int
	dirty    bool
}

// Subscribe 订阅事件，返回句柄
// fn 为 nil 时返回 0 且不订阅
func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	if fn == nil {
		return 0
	}
	s.nextID++
	s.handlers = append(s.handlers, handler[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe 解除订阅，重复调用安全
// 在 Emit 期间解除的订阅者不会再被本轮调用
func (s *Signal[T]) Unsubscribe(id Subscription) {
	if id == 0 {
		return
	}
	for i := range s.handlers {
		if s.handlers[i].id != id {
			continue
		}
		if s.emitting > 0 {
			s.handlers[i].fn = nil
			s.dirty = true
		} else {
			s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
		}
		return
	}
}

// Emit 同步通知所有订阅者
// 回调中新增的订阅者从下一次 Emit 开始生效
func (s *Signal[T]) Emit(v T) {
	n := len(s.handlers)
	if n == 0 {
		return
	}
	s.emitting++
	for i := 0; i < n && i < len(s.handlers); i++ {
		if fn := s.handlers[i].fn; fn != nil {
			fn(v)
		}
	}
	s.emitting--
	if s.emitting == 0 && s.dirty {
		s.compact()
	}
}

// Len 当前订阅者数量
func (s *Signal[T]) Len() int {
	count := 0
	for _, h := range s.handlers {
		if h.fn != nil {
			count++
		}
	}
	return count
}

// Clear 解除全部订阅
func (s *Signal[T]) Clear() {
	if s.emitting > 0 {
		for i := range s.handlers {
			s.handlers[i].fn = nil
		}
		s.dirty = true
		return
	}
	s.handlers = nil
}

func (s *Signal[T]) compact() {
	kept := s.handlers[:0]
	for _, h := range s.handlers {
		if h.fn != nil {
			kept = append(kept, h)
		}
	}
	clear(s.handlers[len(kept):])
	s.handlers = kept
	s.dirty = false
}

// Notify 无参数事件
type Notify struct {
	sig Signal[struct{}]
}

// Subscribe 订阅事件
func (n *Notify) Subscribe(fn func()) Subscription {
	if fn == nil {
		return 0
	}
	return n.sig.Subscribe(func(struct{}) { fn() })
}

// Unsubscribe 解除订阅
func (n *Notify) Unsubscribe(id Subscription) {
	n.sig.Unsubscribe(id)
}

// Emit 通知所有订阅者
func (n *Notify) Emit() {
	n.sig.Emit(struct{}{})
}

// Len 当前订阅者数量
func (n *Notify) Len() int {
	return n.sig.Len()
}

// Clear 解除全部订阅
func (n *Notify) Clear() {
	n.sig.Clear()
}
