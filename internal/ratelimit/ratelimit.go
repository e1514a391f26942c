// Package ratelimit bounds how often verification emails can be requested
// for one address, using a Redis fixed window shared across instances.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sendKeyPrefix = "applyform:verify-send:"

// SendLimiter counts verification sends per email within a window. A nil
// Redis client disables limiting, which keeps single-node and test setups
// working without Redis.
type SendLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewSendLimiter(client *redis.Client, limit int, window time.Duration) *SendLimiter {
	return &SendLimiter{client: client, limit: limit, window: window}
}

// Allow records one send attempt for the address and reports whether it is
// within the window's budget. The INCR and the expiry run in one pipeline so
// the first attempt always starts the window.
func (l *SendLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if l.client == nil || l.limit <= 0 {
		return true, nil
	}

	key := sendKeyPrefix + strings.ToLower(email)

	pipe := l.client.Pipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check for %q: %w", key, err)
	}

	return count.Val() <= int64(l.limit), nil
}
