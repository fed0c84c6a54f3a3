package service

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := NewTokenBucket(t.Context(), 1, 3) // rate=1/s, capacity=3

	for i := 0; i < 3; i++ {
		if !tb.Allow("test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	if tb.Allow("test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	tb := NewTokenBucket(t.Context(), 1, 1)

	if !tb.Allow("ip-a") {
		t.Fatal("ip-a first request should be allowed")
	}
	if tb.Allow("ip-a") {
		t.Fatal("ip-a second request should be denied")
	}
	if !tb.Allow("ip-b") {
		t.Fatal("ip-b first request should be allowed (independent bucket)")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	tb := NewTokenBucket(t.Context(), 0, 2)

	if !tb.Allow("k") || !tb.Allow("k") {
		t.Fatal("first two requests should be allowed")
	}
	if tb.Allow("k") {
		t.Fatal("third request should be denied (no refill)")
	}
}

func TestTokenBucket_SweepRemovesIdleBuckets(t *testing.T) {
	tb := NewTokenBucket(t.Context(), 1, 1)
	tb.Allow("old")

	tb.sweep(time.Now().Add(time.Minute))
	if tb.Len() != 0 {
		t.Fatalf("expected idle bucket to be swept, %d remain", tb.Len())
	}
}

func TestTokenBucket_CleanupStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tb := &TokenBucket{buckets: make(map[string]*bucket), rate: 1, capacity: 1}

	done := make(chan struct{})
	go func() {
		tb.cleanup(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop after cancel")
	}
}
