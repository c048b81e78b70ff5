package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sahilchouksey/course-hub/utils/cache"
)

// ErrNoToken is returned by TokenStore.Load when no token is stored for the key.
var ErrNoToken = errors.New("session: no token stored")

// TokenStore persists one access token per device id.
type TokenStore interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, token string) error
	Clear(ctx context.Context, key string) error
}

// RedisTokenStore keeps tokens in Redis with a sliding TTL.
type RedisTokenStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisTokenStore stores tokens in rc. A zero ttl keeps tokens until logout.
func NewRedisTokenStore(rc *cache.RedisCache, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{cache: rc, ttl: ttl}
}

func (s *RedisTokenStore) Load(ctx context.Context, key string) (string, error) {
	token, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	if s.ttl > 0 {
		if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
			return "", err
		}
	}
	return token, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, key, token string) error {
	return s.cache.Set(ctx, key, token, s.ttl)
}

func (s *RedisTokenStore) Clear(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}

// MemoryTokenStore keeps tokens in process memory. Tokens are lost on restart.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (s *MemoryTokenStore) Load(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[key]
	if !ok {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = token
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}
