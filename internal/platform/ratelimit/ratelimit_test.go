package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBucket_DrainsAtCapacityAndRefills(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	b := New(60).WithClock(func() time.Time { return now })

	// 60 llamadas sin tiempo transcurrido: todas pasan
	for i := 1; i <= 60; i++ {
		if !b.TryConsume() {
			t.Fatalf("call #%d should be allowed", i)
		}
	}

	// la #61 se rechaza
	if b.TryConsume() {
		t.Fatalf("call #61 should be rate limited")
	}
	if d := b.RetryAfter(); d <= 0 || d > time.Second {
		t.Fatalf("expected retry-after within 1s, got %s", d)
	}

	// tras un intervalo completo de recarga vuelve a pasar
	now = now.Add(time.Minute)
	if !b.TryConsume() {
		t.Fatalf("call after full refill interval should be allowed")
	}
}

func TestBucket_ContinuousRefill(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	b := New(60).WithClock(func() time.Time { return now })

	for i := 0; i < 60; i++ {
		b.TryConsume()
	}
	now = now.Add(time.Second)
	if !b.TryConsume() {
		t.Fatalf("expected one token refilled after 1s")
	}
	if b.TryConsume() {
		t.Fatalf("expected only one token refilled after 1s")
	}
}

func TestBucket_ConcurrentConsumersNeverExceedCapacity(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	b := New(60).WithClock(func() time.Time { return now })

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.TryConsume() {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != 60 {
		t.Fatalf("expected exactly 60 allowed, got %d", allowed)
	}
}

func TestNew_DefaultsWhenNonPositive(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	b := New(0).WithClock(func() time.Time { return now })

	n := 0
	for b.TryConsume() {
		n++
		if n > 1000 {
			t.Fatalf("bucket never drained")
		}
	}
	if n != DefaultPerMinute {
		t.Fatalf("expected %d tokens, got %d", DefaultPerMinute, n)
	}
}
