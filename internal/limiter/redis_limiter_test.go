package limiter

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// TestRedisLimiter_Connection tests Redis connection
func TestRedisLimiter_Connection(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	lim, err := NewRedisLimiter(mr.Addr(), "", 0, 10)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	defer lim.Close()

	if lim.client == nil {
		t.Error("expected client to be initialized")
	}
}

// TestRedisLimiter_ConnectionFailure tests connection errors
func TestRedisLimiter_ConnectionFailure(t *testing.T) {
	_, err := NewRedisLimiter("invalid:9999", "", 0, 10)

	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

// TestRedisLimiter_BasicRateLimit tests counting within a window
func TestRedisLimiter_BasicRateLimit(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	lim, err := NewRedisLimiter(mr.Addr(), "", 0, 3)
	if err != nil {
		t.Fatalf("failed to create limiter: %v", err)
	}
	defer lim.Close()

	ip := "192.168.1.1"

	for i := 0; i < 3; i++ {
		if !lim.Allow(ip) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if lim.Allow(ip) {
		t.Error("request 4 should be rate limited")
	}
}

// TestRedisLimiter_PerIPIsolation tests separate counters per IP
func TestRedisLimiter_PerIPIsolation(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	lim, _ := NewRedisLimiter(mr.Addr(), "", 0, 2)
	defer lim.Close()

	for i := 0; i < 2; i++ {
		if !lim.Allow("10.0.0.1") {
			t.Errorf("request %d for first IP should be allowed", i+1)
		}
	}
	if lim.Allow("10.0.0.1") {
		t.Error("first IP should be rate limited")
	}

	if !lim.Allow("10.0.0.2") {
		t.Error("second IP should have its own counter")
	}
}

// TestRedisLimiter_FractionalRate tests the stretched window for
// fractional rates
func TestRedisLimiter_FractionalRate(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	// 0.5 req/s -> 2 second window with a limit of 1
	lim, _ := NewRedisLimiter(mr.Addr(), "", 0, 0.5)
	defer lim.Close()

	ip := "192.168.1.1"

	if !lim.Allow(ip) {
		t.Error("first request should be allowed")
	}
	if lim.Allow(ip) {
		t.Error("second request in the same window should be rate limited")
	}
}

// TestRedisLimiter_FailsOpen tests that Redis errors never block traffic
func TestRedisLimiter_FailsOpen(t *testing.T) {
	mr, _ := miniredis.Run()

	lim, _ := NewRedisLimiter(mr.Addr(), "", 0, 1)
	defer lim.Close()

	// Kill the backend; Allow must fail open
	mr.Close()

	if !lim.Allow("192.168.1.1") {
		t.Error("expected request to be allowed when Redis is unavailable")
	}
}
