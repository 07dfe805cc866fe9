package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			calls:    5,
			wantPass: 2,
		},
		{
			name:     "zero burst rejects everything",
			rps:      1,
			burst:    0,
			calls:    2,
			wantPass: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst, 0)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("test") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	rl := New(1, 1, 0)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	if !rl.Allow("ip") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("ip") {
		t.Fatal("second request should be limited")
	}

	clock = clock.Add(time.Second)
	if !rl.Allow("ip") {
		t.Error("request after refill should pass")
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1, 0)
	defer rl.Stop()

	if !rl.Allow("key1") {
		t.Error("key1 first request should pass")
	}
	if rl.Allow("key1") {
		t.Error("key1 second request should be limited")
	}
	if !rl.Allow("key2") {
		t.Error("key2 should have its own bucket")
	}
	if got := rl.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestKeyedRateLimiter_Sweep(t *testing.T) {
	rl := New(1, 1, time.Minute)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.mu.Lock()
	rl.now = func() time.Time { return clock }
	rl.mu.Unlock()

	rl.Allow("stale")
	clock = clock.Add(50 * time.Second)
	rl.Allow("fresh")
	clock = clock.Add(20 * time.Second)

	if removed := rl.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if got := rl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	// A swept key starts over with a full bucket.
	if !rl.Allow("stale") {
		t.Error("swept key should get a fresh bucket")
	}
}

func TestKeyedRateLimiter_Concurrent(t *testing.T) {
	rl := New(1000, 10, 0)
	defer rl.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rl.Allow(fmt.Sprintf("key-%d", n%5))
		}(i)
	}
	wg.Wait()

	if got := rl.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestKeyedRateLimiter_StopIdempotent(t *testing.T) {
	rl := New(1, 1, time.Millisecond)
	rl.Stop()
	rl.Stop()
}
