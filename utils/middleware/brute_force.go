package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// AttemptStore keeps login failure counters. *cache.RedisCache implements it.
type AttemptStore interface {
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// attemptWindow is how long failures are remembered
const attemptWindow = 15 * time.Minute

// BruteForceProtection locks out clients with repeated failed logins
type BruteForceProtection struct {
	store AttemptStore
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(store AttemptStore) *BruteForceProtection {
	return &BruteForceProtection{
		store: store,
	}
}

func attemptKey(ip string) string {
	return "attempts:" + ip
}

func lockKey(ip string) string {
	return "lock:" + ip
}

// CheckAndRecordAttempt rejects requests from locked out clients with 429.
// Store failures let the request through.
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		ip := c.IP()

		locked, err := b.store.Exists(ctx, lockKey(ip))
		if err != nil {
			log.Warnw("login throttle unavailable", "error", err)
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		retryAfter := 60
		if ttl, err := b.store.TTL(ctx, lockKey(ip)); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return fiber.NewError(fiber.StatusTooManyRequests,
			fmt.Sprintf("Too many failed login attempts. Try again in %d seconds.", retryAfter))
	}
}

// LockoutFor is the progressive lockout after the given number of failures
func LockoutFor(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	default:
		return 0
	}
}

// RecordFailedAttempt counts a failed login and locks the client out once
// the count reaches a lockout threshold.
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx, username string) {
	ctx := c.UserContext()
	ip := c.IP()

	attempts, err := b.store.Increment(ctx, attemptKey(ip))
	if err != nil {
		log.Warnw("failed to record login attempt", "error", err)
		return
	}
	if attempts == 1 {
		if err := b.store.Expire(ctx, attemptKey(ip), attemptWindow); err != nil {
			log.Warnw("failed to expire login attempts", "error", err)
		}
	}

	lockout := LockoutFor(attempts)
	if lockout == 0 {
		return
	}
	log.Warnw("locking out client after failed logins", "ip", ip, "username", username, "attempts", attempts, "lockout", lockout)
	if err := b.store.Set(ctx, lockKey(ip), "locked", lockout); err != nil {
		log.Warnw("failed to lock out client", "error", err)
	}
}

// RecordSuccessfulAttempt clears the client's failures
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx) {
	if err := b.store.Delete(c.UserContext(), attemptKey(c.IP()), lockKey(c.IP())); err != nil {
		log.Warnw("failed to clear login attempts", "error", err)
	}
}
