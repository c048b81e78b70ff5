// Package devapitest starts the reference backend on an in-memory database
// for tests.
package devapitest

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sahilchouksey/course-hub/database"
	"github.com/sahilchouksey/course-hub/devapi"
	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/utils/auth"
)

// Backend is a running reference backend.
type Backend struct {
	Server *httptest.Server
	DB     *gorm.DB
}

// New starts a backend that is shut down when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()

	store, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app := devapi.New(store.DB(), devapi.Config{
		JWT:           auth.JWTConfig{Secret: "test-secret", Issuer: "course-hub-test"},
		BcryptCost:    bcrypt.MinCost,
		DisableLogger: true,
	})
	server := httptest.NewServer(adaptor.FiberApp(app))

	t.Cleanup(func() {
		server.Close()
		_ = store.Close()
	})

	return &Backend{Server: server, DB: store.DB()}
}

// BaseURL is the API base the web client is configured with.
func (b *Backend) BaseURL() string {
	return b.Server.URL + "/api"
}

// Client returns an unauthenticated client for the backend.
func (b *Backend) Client() *coursehub.Client {
	return coursehub.NewClient(coursehub.Config{BaseURL: b.BaseURL()})
}

// SignUp registers a user and returns a client authenticated as that user.
func (b *Backend) SignUp(t testing.TB, username string, role model.Role) (*coursehub.Client, *model.User) {
	t.Helper()
	resp, err := b.Client().Signup(context.Background(), model.SignupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	user := resp.User
	return b.Client().WithTokenSource(coursehub.StaticToken(resp.AccessToken)), &user
}
