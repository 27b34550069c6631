package limiter

import (
	"sync"
	"time"
)

// Limiter is the interface all inbound rate limiters implement.
// Allows swapping between in-memory and Redis implementations.
type Limiter interface {
	// Allow reports whether a request from the given IP should be allowed
	Allow(ip string) bool

	// Close cleans up any resources (Redis connections, etc.)
	Close() error
}

// TokenBucket holds per-client tokens refilled at a fixed rate.
// Each request consumes one token; an empty bucket means 429.
type TokenBucket struct {
	tokens         float64
	capacity       float64
	refillRate     float64 // tokens added per second
	lastRefillTime time.Time
	mu             sync.Mutex // protects tokens and lastRefillTime
}

// NewTokenBucket creates a bucket that starts full.
// Capacity is clamped to at least 1 so the first request of a fractional
// rate always passes.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	initialTokens := capacity
	if initialTokens < 1.0 {
		initialTokens = 1.0
	}

	return &TokenBucket{
		tokens:         initialTokens,
		capacity:       max(capacity, 1.0),
		refillRate:     rate,
		lastRefillTime: time.Now(),
	}
}

// Allow consumes one token if available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}

	return false
}

// refill adds tokens for the elapsed time; caller holds the mutex
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()

	tb.tokens = min(tb.tokens+elapsed*tb.refillRate, tb.capacity)
	tb.lastRefillTime = now
}

// MemoryLimiter keeps a token bucket per client IP.
// Suitable for single-instance deployments; buckets idle for five
// minutes are dropped to bound memory.
type MemoryLimiter struct {
	buckets     sync.Map // map[string]*TokenBucket keyed by IP
	rate        float64
	capacity    float64
	cleanupMu   sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter creates a new in-memory rate limiter.
// requestsPerSecond may be fractional (0.2 = one request per five seconds).
func NewMemoryLimiter(requestsPerSecond float64) *MemoryLimiter {
	return &MemoryLimiter{
		rate:        requestsPerSecond,
		capacity:    requestsPerSecond,
		lastCleanup: time.Now(),
	}
}

// Allow implements the Limiter interface
func (rl *MemoryLimiter) Allow(ip string) bool {
	bucket := rl.getBucket(ip)
	allowed := bucket.Allow()
	rl.maybeCleanup()
	return allowed
}

func (rl *MemoryLimiter) getBucket(ip string) *TokenBucket {
	if value, ok := rl.buckets.Load(ip); ok {
		return value.(*TokenBucket)
	}

	bucket := NewTokenBucket(rl.rate, rl.capacity)
	actual, _ := rl.buckets.LoadOrStore(ip, bucket)
	return actual.(*TokenBucket)
}

// maybeCleanup drops buckets inactive for five minutes, at most once
// every five minutes
func (rl *MemoryLimiter) maybeCleanup() {
	rl.cleanupMu.Lock()
	defer rl.cleanupMu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}

	threshold := time.Now().Add(-5 * time.Minute)

	rl.buckets.Range(func(key, value interface{}) bool {
		bucket := value.(*TokenBucket)
		bucket.mu.Lock()
		lastAccess := bucket.lastRefillTime
		bucket.mu.Unlock()

		if lastAccess.Before(threshold) {
			rl.buckets.Delete(key)
		}

		return true
	})

	rl.lastCleanup = time.Now()
}

// Close implements the Limiter interface; nothing to release in memory
func (rl *MemoryLimiter) Close() error {
	return nil
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
