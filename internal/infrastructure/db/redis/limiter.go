package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 10
	defaultWindow      = 15 * time.Minute
)

// AttemptLimiter throttles failed logins per email, backed by Redis.
// Key format: login_fail:<email>, an INCR counter that expires after the
// window. The limiter fails open: Redis being down never locks anyone out.
type AttemptLimiter struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewAttemptLimiter creates an AttemptLimiter wrapping the given Redis client.
// Non-positive maxFailures/window fall back to 10 failures per 15 minutes.
func NewAttemptLimiter(client *redis.Client, maxFailures int64, window time.Duration) *AttemptLimiter {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &AttemptLimiter{client: client, maxFailures: maxFailures, window: window}
}

// TooMany reports whether the email has exhausted its failure budget.
func (l *AttemptLimiter) TooMany(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("limiter check: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure counts one failed login; the first failure starts the window.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("limiter record: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("limiter expire: %w", err)
		}
	}
	return nil
}

// Clear resets the counter after a successful login.
func (l *AttemptLimiter) Clear(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("limiter clear: %w", err)
	}
	return nil
}

func (l *AttemptLimiter) key(email string) string {
	return "login_fail:" + email
}
