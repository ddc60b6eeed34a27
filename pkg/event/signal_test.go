package event

import "testing"

func TestSignalEmitOrder(t *testing.T) {
	var s Signal[int]
	var got []int
	s.Subscribe(func(v int) { got = append(got, v*10) })
	s.Subscribe(func(v int) { got = append(got, v*100) })

	s.Emit(1)

	if len(got) != 2 || got[0] != 10 || got[1] != 100 {
		t.Errorf("Expected [10 100], got %v", got)
	}
}

func TestSignalUnsubscribe(t *testing.T) {
	var s Signal[string]
	calls := 0
	id := s.Subscribe(func(string) { calls++ })

	s.Unsubscribe(id)
	s.Unsubscribe(id)
	s.Emit("x")

	if calls != 0 {
		t.Errorf("Expected 0 calls after unsubscribe, got %d", calls)
	}
	if s.Len() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", s.Len())
	}
}

func TestSignalUnsubscribeDuringEmit(t *testing.T) {
	var s Signal[int]
	secondCalls := 0
	var second Subscription
	s.Subscribe(func(int) { s.Unsubscribe(second) })
	second = s.Subscribe(func(int) { secondCalls++ })

	s.Emit(0)
	s.Emit(0)

	if secondCalls != 0 {
		t.Errorf("Handler removed mid-emit should not run, got %d calls", secondCalls)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", s.Len())
	}
}

func TestSignalSubscribeDuringEmitStartsNextRound(t *testing.T) {
	var s Signal[int]
	lateCalls := 0
	s.Subscribe(func(int) {
		s.Subscribe(func(int) { lateCalls++ })
	})

	s.Emit(0)
	if lateCalls != 0 {
		t.Errorf("Late subscriber should not run in the same emit, got %d", lateCalls)
	}
}

func TestNotifyClear(t *testing.T) {
	var n Notify
	calls := 0
	n.Subscribe(func() { calls++ })
	n.Emit()
	n.Clear()
	n.Emit()

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestSubscribeNil(t *testing.T) {
	var n Notify
	if id := n.Subscribe(nil); id != 0 {
		t.Errorf("Expected zero subscription for nil handler, got %d", id)
	}
	n.Emit()
}
