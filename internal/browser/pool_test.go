package browser

import (
	"context"
	"testing"
	"time"
)

func testPool(size int) *Pool {
	// An explicit fake Chrome path keeps FindChrome from probing the host.
	return NewPool(Options{Size: size, Headless: true, ChromePath: "/usr/bin/true"})
}

func TestPoolSizeClamped(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 2},
		{-1, 2},
		{3, 3},
		{10, 4},
	}
	for _, tt := range tests {
		p := testPool(tt.in)
		if p.Size() != tt.want {
			t.Errorf("NewPool(Size:%d).Size() = %d, want %d", tt.in, p.Size(), tt.want)
		}
		p.Close()
	}
}

func TestPoolSlotAccounting(t *testing.T) {
	p := testPool(2)
	defer p.Close()

	if p.Available() != 2 {
		t.Fatalf("Available() = %d, want 2", p.Available())
	}

	s1, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if p.Available() != 0 {
		t.Errorf("Available() = %d, want 0", p.Available())
	}

	s1.Release()
	if p.Available() != 1 {
		t.Errorf("Available() after release = %d, want 1", p.Available())
	}
	s2.Release()
	if p.Available() != 2 {
		t.Errorf("Available() after release = %d, want 2", p.Available())
	}
}

func TestPoolAcquireBlocksUntilRelease(t *testing.T) {
	p := testPool(1)
	defer p.Close()

	s, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(ctx); err == nil {
		t.Fatal("expected Acquire to fail while the only slot is held")
	}

	s.Release()
	s2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	s2.Release()
}

func TestPoolClosedAcquire(t *testing.T) {
	p := testPool(1)
	p.Close()

	if _, err := p.Acquire(context.Background()); err == nil {
		t.Fatal("expected error acquiring from a closed pool")
	}
}

func TestSessionNilRelease(t *testing.T) {
	var s *Session
	s.Release() // must not panic
}
