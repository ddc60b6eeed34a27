package pool

import (
	"testing"

	"github.com/gonewx/linepull/pkg/geom"
)

func TestGetArrayWithinCapacityIsPooled(t *testing.T) {
	p := NewBufferPool(100, 4)

	arr := p.GetArray(50)
	if len(arr) != 50 {
		t.Fatalf("Expected length 50, got %d", len(arr))
	}
	if !p.Owns(arr) {
		t.Error("Array within capacity should be tracked by the pool")
	}
	if s := p.Stats(); s.Hits != 1 || s.CheckedOut != 1 {
		t.Errorf("Expected 1 hit and 1 checked out, got %+v", s)
	}
}

func TestGetArrayOverCapacityFallsBackToAllocation(t *testing.T) {
	p := NewBufferPool(100, 4)

	arr := p.GetArray(150)
	if len(arr) != 150 {
		t.Fatalf("Expected length 150, got %d", len(arr))
	}
	if p.Owns(arr) {
		t.Error("Overflow array must not be tracked")
	}

	// 归还外来数组是空操作
	p.RecycleArray(arr)
	if s := p.Stats(); s.Free != 0 || s.Misses != 1 {
		t.Errorf("Expected no free buffers and 1 miss, got %+v", s)
	}
}

func TestGetArrayNonPositiveLength(t *testing.T) {
	p := NewBufferPool(10, 2)
	if arr := p.GetArray(0); len(arr) != 0 {
		t.Errorf("Expected empty array, got length %d", len(arr))
	}
	if arr := p.GetArray(-3); len(arr) != 0 {
		t.Errorf("Expected empty array for negative length, got length %d", len(arr))
	}
	if s := p.Stats(); s.Misses != 2 {
		t.Errorf("Expected 2 misses, got %d", s.Misses)
	}
}

func TestRecycleClearsAndReuses(t *testing.T) {
	p := NewBufferPool(10, 1)

	a := p.GetArray(3)
	a[0] = geom.V2(7, 7)
	p.RecycleArray(a)

	if a[0] != (geom.Vec3{}) {
		t.Errorf("Recycled array should be cleared, got %+v", a[0])
	}

	b := p.GetArray(2)
	if &a[0] != &b[0] {
		t.Error("Expected the recycled backing array to be reused")
	}
	if s := p.Stats(); s.Created != 1 {
		t.Errorf("Expected exactly 1 created buffer, got %d", s.Created)
	}
}

func TestRecycleTwiceIsNoop(t *testing.T) {
	p := NewBufferPool(10, 4)

	a := p.GetArray(4)
	p.RecycleArray(a)
	p.RecycleArray(a)
	p.RecycleArray(a)

	if s := p.Stats(); s.Free != 1 {
		t.Fatalf("Expected 1 free buffer after repeated recycle, got %d", s.Free)
	}

	// 两次借出不得拿到同一底层数组
	x := p.GetArray(4)
	y := p.GetArray(4)
	if &x[0] == &y[0] {
		t.Error("Two live checkouts share the same backing array")
	}
}

func TestBufferGrowsOnlyWhenTooSmall(t *testing.T) {
	p := NewBufferPool(10, 1)

	small := p.GetArray(2)
	p.RecycleArray(small)

	big := p.GetArray(8)
	if len(big) != 8 {
		t.Fatalf("Expected length 8, got %d", len(big))
	}
	if !p.Owns(big) {
		t.Error("Grown buffer should still be tracked")
	}
	p.RecycleArray(big)

	again := p.GetArray(5)
	if &again[0] != &big[0] {
		t.Error("Buffer should keep its grown storage (no shrink-to-fit)")
	}
	if cap(again) != 8 {
		t.Errorf("Expected capacity 8, got %d", cap(again))
	}
}

func TestPoolCeilingFallsBackToAllocation(t *testing.T) {
	p := NewBufferPool(10, 2)

	a := p.GetArray(3)
	b := p.GetArray(3)
	c := p.GetArray(3)

	if !p.Owns(a) || !p.Owns(b) {
		t.Error("First two arrays should be pooled")
	}
	if p.Owns(c) {
		t.Error("Third array should be a direct allocation past the ceiling")
	}
	if s := p.Stats(); s.Created != 2 || s.Misses != 1 {
		t.Errorf("Expected created=2 misses=1, got %+v", s)
	}
}

func TestGetArrayIsClearedAfterStaleWrite(t *testing.T) {
	p := NewBufferPool(10, 1)

	a := p.GetArray(3)
	p.RecycleArray(a)
	// 持有者在归还后仍写入旧切片
	a[1] = geom.V2(9, 9)

	b := p.GetArray(3)
	for i, v := range b {
		if v != (geom.Vec3{}) {
			t.Errorf("Expected cleared element at %d, got %+v", i, v)
		}
	}
}
