package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/jobboard/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError reports a rejected request and how long the caller should wait.
type RateLimitError struct {
	Action     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many %s requests, retry in %.0f seconds", e.Action, e.RetryAfter.Seconds())
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter allows one request per subject and action inside a window.
// A nil Limiter, or one without a client, allows everything.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.rdb != nil
}

// Allow returns nil when the request may proceed and a *RateLimitError when it may not.
func (l *Limiter) Allow(ctx context.Context, subject, action string, window time.Duration) error {
	if !l.Enabled() || window <= 0 {
		return nil
	}

	key := Key(subject, action)

	wasSet, err := l.rdb.SetNX(ctx, key, "locked", window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return &RateLimitError{Action: action, RetryAfter: ttl}
}

// Clear drops the lock for subject and action.
func (l *Limiter) Clear(ctx context.Context, subject, action string) error {
	if !l.Enabled() {
		return nil
	}
	return l.rdb.Del(ctx, Key(subject, action)).Err()
}

func Key(subject, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", subject, action)
}
