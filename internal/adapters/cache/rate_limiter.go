package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

const verificationNamespace = "verification"

// RateLimiter is a fixed window counter: at most limit calls per key per window.
// Every hit re-asserts the window TTL with EXPIRE NX, so a counter never
// outlives its window even if an earlier EXPIRE was lost.
type RateLimiter struct {
	client RedisClient
	window time.Duration
	limit  int64
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

func NewRateLimiter(client RedisClient, window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{client: client, window: window, limit: int64(limit)}
}

func (l *RateLimiter) Allow(ctx context.Context, id string) (bool, error) {
	countKey := key(verificationNamespace, id)

	cnt, err := l.client.Incr(ctx, countKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count attempts: %w", err)
	}

	if err := l.client.ExpireNX(ctx, countKey, l.window).Err(); err != nil {
		return false, fmt.Errorf("failed to set attempt window: %w", err)
	}

	return cnt <= l.limit, nil
}
