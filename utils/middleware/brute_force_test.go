package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAttempts ignores expirations.
type memoryAttempts struct {
	mu     sync.Mutex
	values map[string]int64
	ttls   map[string]time.Duration
}

func newMemoryAttempts() *memoryAttempts {
	return &memoryAttempts{values: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memoryAttempts) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key]++
	return m.values[key], nil
}

func (m *memoryAttempts) Expire(_ context.Context, key string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = d
	return nil
}

func (m *memoryAttempts) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok, nil
}

func (m *memoryAttempts) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key], nil
}

func (m *memoryAttempts) Set(_ context.Context, key string, _ interface{}, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = 1
	m.ttls[key] = d
	return nil
}

func (m *memoryAttempts) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
		delete(m.ttls, k)
	}
	return nil
}

func TestLockoutFor(t *testing.T) {
	assert.Zero(t, LockoutFor(4))
	assert.Equal(t, 2*time.Minute, LockoutFor(5))
	assert.Equal(t, time.Hour, LockoutFor(10))
	assert.Equal(t, 24*time.Hour, LockoutFor(30))
}

func TestBruteForceProtectionLocksAfterFailures(t *testing.T) {
	bf := NewBruteForceProtection(newMemoryAttempts())

	app := fiber.New()
	app.Post("/login", bf.CheckAndRecordAttempt(), func(c *fiber.Ctx) error {
		if c.FormValue("password") != "right" {
			bf.RecordFailedAttempt(c, "prof")
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		bf.RecordSuccessfulAttempt(c)
		return c.SendStatus(fiber.StatusOK)
	})

	login := func(password string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/login?password="+password, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, login("wrong").StatusCode)
	}

	resp := login("right")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "120", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestBruteForceProtectionSuccessClearsFailures(t *testing.T) {
	store := newMemoryAttempts()
	bf := NewBruteForceProtection(store)

	app := fiber.New()
	app.Post("/login", func(c *fiber.Ctx) error {
		if c.Query("ok") == "" {
			bf.RecordFailedAttempt(c, "prof")
		} else {
			bf.RecordSuccessfulAttempt(c)
		}
		return nil
	})

	for _, target := range []string{"/login", "/login", "/login?ok=1"} {
		_, err := app.Test(httptest.NewRequest(http.MethodPost, target, nil), -1)
		require.NoError(t, err)
	}
	assert.Empty(t, store.values)
}
