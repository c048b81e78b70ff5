package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/utils/cache"
)

const validToken = "token-ada"

// fakeBackend accepts ada/password123 and validToken.
func fakeBackend(t *testing.T) *coursehub.Client {
	t.Helper()
	ada := model.User{ID: 1, Username: "ada", Email: "ada@example.com", Role: model.RoleProfessor}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "ada" || req.Password != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(model.AuthResponse{AccessToken: validToken, TokenType: "bearer", User: ada})
	})
	mux.HandleFunc("/api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var req model.SignupRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		user := model.User{ID: 2, Username: req.Username, Email: req.Email, Role: req.Role}
		_ = json.NewEncoder(w).Encode(model.AuthResponse{AccessToken: "token-" + req.Username, TokenType: "bearer", User: user})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(ada)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return coursehub.NewClient(coursehub.Config{BaseURL: server.URL + "/api"})
}

func TestHydrateWithoutToken(t *testing.T) {
	manager := NewManager(fakeBackend(t), NewMemoryTokenStore())
	s := manager.New("device-1")
	assert.Equal(t, StatusUninitialized, s.Status())

	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, StatusAnonymous, s.Status())
	assert.Nil(t, s.User())
	assert.False(t, s.IsProfessor())
}

func TestHydrateWithValidToken(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), "device-1", validToken))

	s := NewManager(fakeBackend(t), store).New("device-1")
	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, StatusAuthenticated, s.Status())
	require.NotNil(t, s.User())
	assert.Equal(t, "ada", s.User().Username)
	assert.True(t, s.IsProfessor())
}

func TestHydrateWithRejectedTokenClearsIt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(ctx, "device-1", "expired"))

	s := NewManager(fakeBackend(t), store).New("device-1")
	err := s.Hydrate(ctx)
	assert.ErrorIs(t, err, coursehub.ErrUnauthorized)
	assert.Equal(t, StatusAnonymous, s.Status())

	_, err = store.Load(ctx, "device-1")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestLoginPersistsToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	manager := NewManager(fakeBackend(t), store)

	s := manager.New("device-1")
	require.NoError(t, s.Hydrate(ctx))
	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "ada", Password: "password123"}))
	assert.True(t, s.IsAuthenticated())

	token, err := store.Load(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, validToken, token)

	// Next request from the same browser.
	next := manager.New("device-1")
	require.NoError(t, next.Hydrate(ctx))
	assert.True(t, next.IsAuthenticated())

	// Another browser is unaffected.
	other := manager.New("device-2")
	require.NoError(t, other.Hydrate(ctx))
	assert.False(t, other.IsAuthenticated())
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	s := NewManager(fakeBackend(t), store).New("device-1")
	require.NoError(t, s.Hydrate(ctx))

	err := s.Login(ctx, model.LoginRequest{Username: "ada", Password: "wrong-password"})
	require.Error(t, err)
	assert.ErrorIs(t, err, coursehub.ErrUnauthorized)
	assert.Equal(t, "Incorrect username or password", coursehub.Message(err, ""))
	assert.Equal(t, StatusAnonymous, s.Status())

	_, err = store.Load(ctx, "device-1")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSignupSignsIn(t *testing.T) {
	ctx := context.Background()
	s := NewManager(fakeBackend(t), NewMemoryTokenStore()).New("device-1")

	require.NoError(t, s.Signup(ctx, model.SignupRequest{
		Username: "grace", Email: "grace@example.com", Password: "password123", Role: model.RoleStudent,
	}))
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsProfessor())
	assert.Equal(t, "grace", s.User().Username)
}

func TestLogoutClearsToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	manager := NewManager(fakeBackend(t), store)

	s := manager.New("device-1")
	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "ada", Password: "password123"}))
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, StatusAnonymous, s.Status())
	assert.Nil(t, s.User())

	reloaded := manager.New("device-1")
	require.NoError(t, reloaded.Hydrate(ctx))
	assert.False(t, reloaded.IsAuthenticated())
}

func TestUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewManager(fakeBackend(t), NewMemoryTokenStore()).New("device-1")
	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "ada", Password: "password123"}))

	u := s.User()
	u.Role = model.RoleStudent
	assert.True(t, s.IsProfessor())
}

type brokenStore struct{ MemoryTokenStore }

func (*brokenStore) Load(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestHydrateStoreFailure(t *testing.T) {
	s := NewManager(fakeBackend(t), &brokenStore{}).New("device-1")
	err := s.Hydrate(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusAnonymous, s.Status())
}

func TestFromPanicsWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/bare", func(c *fiber.Ctx) error {
		assert.Panics(t, func() { From(c) })
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/attached", func(c *fiber.Ctx) error {
		s := &Session{deviceID: "d"}
		Attach(c, s)
		assert.Same(t, s, From(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, path := range []string{"/bare", "/attached"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestRedisTokenStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping redis token store test")
	}

	rc, err := cache.NewRedisCache(redisURL, "test:session:")
	require.NoError(t, err)
	defer rc.Close()

	ctx := context.Background()
	store := NewRedisTokenStore(rc, time.Minute)
	key := "device-" + time.Now().Format("150405.000000")

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, store.Save(ctx, key, "abc"))
	token, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	ttl, err := rc.TTL(ctx, key)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Clear(ctx, key))
	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, ErrNoToken)
}
