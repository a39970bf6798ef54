package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	resetWindow      = time.Hour
	resetMaxRequests = 3
)

// ResetLimiter throttles forgot-password requests per email address with a
// fixed window, so the reset mail channel cannot be used to spam a mailbox.
// Key format: pwreset:<email>
type ResetLimiter struct {
	client *redis.Client
}

// NewResetLimiter creates a ResetLimiter wrapping the given Redis client.
func NewResetLimiter(client *redis.Client) *ResetLimiter {
	return &ResetLimiter{client: client}
}

// Allow reports whether another reset request for email may proceed, and
// counts the attempt. The window starts with the first request.
func (l *ResetLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("pwreset:%s", email)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("reset limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, resetWindow).Err(); err != nil {
			return false, fmt.Errorf("reset limiter expire: %w", err)
		}
	}
	return n <= resetMaxRequests, nil
}
