// Package ratelimit throttles repeated login failures with a fixed
// window counter in Redis. The limiter is best effort: when Redis is
// unreachable, logins proceed rather than locking everyone out.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/logger"
)

type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
	log         logger.ILogger
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration, log logger.ILogger) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		maxAttempts: maxAttempts,
		window:      window,
		log:         log,
	}
}

func (l *LoginLimiter) key(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", email, ip)
}

// Check returns an authentication error when the caller has exhausted
// the allowed attempts for the current window.
func (l *LoginLimiter) Check(ctx context.Context, email, ip string) error {
	if l.rdb == nil {
		return nil
	}
	count, err := l.rdb.Get(ctx, l.key(email, ip)).Int()
	if err != nil {
		if err != redis.Nil {
			l.log.Warn("ratelimit", "redis unavailable, skipping limit check", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	if count >= l.maxAttempts {
		return apperr.Authentication("too many failed login attempts, try again later")
	}
	return nil
}

// RecordFailure bumps the counter and arms the window expiry on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) {
	if l.rdb == nil {
		return
	}
	key := l.key(email, ip)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn("ratelimit", "redis unavailable, failure not recorded", map[string]interface{}{"error": err.Error()})
		return
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if l.rdb == nil {
		return
	}
	if err := l.rdb.Del(ctx, l.key(email, ip)).Err(); err != nil {
		l.log.Warn("ratelimit", "redis unavailable, counter not reset", map[string]interface{}{"error": err.Error()})
	}
}
