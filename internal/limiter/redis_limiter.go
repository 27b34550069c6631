package limiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements distributed rate limiting using Redis, for
// deployments with more than one instance sharing a limit.
//
// Fixed-window counters: one key per IP per window with a TTL for
// automatic cleanup, incremented atomically by a Lua script.
type RedisLimiter struct {
	client         *redis.Client
	ctx            context.Context
	requestsPerSec float64
	windowSize     time.Duration
}

// incrWindowScript increments the per-window counter and sets its expiry
// on first use, as one atomic unit on the Redis server.
const incrWindowScript = `
	local key = KEYS[1]
	local ttl = tonumber(ARGV[1])

	local current = redis.call('INCR', key)
	if current == 1 then
		redis.call('EXPIRE', key, ttl)
	end

	return current
`

// NewRedisLimiter creates a Redis-backed rate limiter and verifies the
// connection. For fractional rates the window stretches so at least one
// request fits (0.2 req/s uses a 5 second window).
func NewRedisLimiter(addr, password string, db int, requestsPerSecond float64) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	windowSize := time.Second
	if requestsPerSecond < 1.0 {
		windowSize = time.Duration(float64(time.Second) / requestsPerSecond)
	}

	return &RedisLimiter{
		client:         client,
		ctx:            ctx,
		requestsPerSec: requestsPerSecond,
		windowSize:     windowSize,
	}, nil
}

// Allow implements the Limiter interface.
// On Redis errors it fails open so an unavailable Redis never blocks
// legitimate traffic.
func (rl *RedisLimiter) Allow(ip string) bool {
	windowSeconds := int64(rl.windowSize.Seconds())
	window := time.Now().Unix() / windowSeconds
	key := fmt.Sprintf("ratelimit:%s:%d", ip, window)

	result, err := rl.client.Eval(rl.ctx, incrWindowScript, []string{key}, windowSeconds*2).Result()
	if err != nil {
		return true
	}

	count, ok := result.(int64)
	if !ok {
		return true
	}

	limit := int64(math.Ceil(rl.requestsPerSec * rl.windowSize.Seconds()))
	return count <= limit
}

// Close closes the Redis connection
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
