package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetIn is the time left in the current window
	ResetIn time.Duration
}

// RateLimiter counts hits per key in fixed windows
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

func decide(count int64, limit int, resetIn time.Duration) Decision {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

type redisRateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a Redis-backed limiter; all server instances sharing
// the Redis server share the counters
func NewRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{client: client}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	k := "ratelimit:" + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, k, window).Err(); err != nil {
			return Decision{}, err
		}
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	if ttl < 0 {
		// counter lost its expiry; restart the window
		if err := l.client.PExpire(ctx, k, window).Err(); err != nil {
			return Decision{}, err
		}
		ttl = window
	}
	return decide(count, limit, ttl), nil
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

type memoryRateLimiter struct {
	mu       sync.Mutex
	now      func() time.Time
	counters map[string]*windowCounter
}

// NewMemoryRateLimiter creates a process-local limiter
func NewMemoryRateLimiter() RateLimiter {
	return newMemoryRateLimiter(time.Now)
}

func newMemoryRateLimiter(now func() time.Time) *memoryRateLimiter {
	return &memoryRateLimiter{
		now:      now,
		counters: make(map[string]*windowCounter),
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counters[key]
	if !ok || !now.Before(c.resetAt) {
		l.sweep(now)
		c = &windowCounter{resetAt: now.Add(window)}
		l.counters[key] = c
	}
	c.count++
	return decide(c.count, limit, c.resetAt.Sub(now)), nil
}

// sweep drops expired windows so idle clients do not accumulate
func (l *memoryRateLimiter) sweep(now time.Time) {
	for k, c := range l.counters {
		if !now.Before(c.resetAt) {
			delete(l.counters, k)
		}
	}
}
