package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ScopeLogin   = "login"
	ScopeArticle = "article"
)

// RateLimitError tells the caller how long to wait before retrying.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// Limiter is a fixed cooldown per (principal, scope) backed by Redis SETNX.
// A nil Redis client disables limiting.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(principal, scope string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, principal)
}

// Allow reserves the cooldown window. It returns false with the remaining TTL
// when the window is still held.
func (l *Limiter) Allow(ctx context.Context, principal, scope string, window time.Duration) (bool, time.Duration, error) {
	if l == nil || l.rdb == nil || window <= 0 {
		return true, 0, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(principal, scope), "locked", window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, key(principal, scope)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read rate limit ttl: %w", err)
	}
	return false, ttl, nil
}

// Clear releases a window, used to roll back when the guarded operation failed.
func (l *Limiter) Clear(ctx context.Context, principal, scope string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(principal, scope)).Err()
}
