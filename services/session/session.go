package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/services/coursehub"
)

// Status is the lifecycle state of a Session.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Manager creates sessions bound to a backend client and a token store.
type Manager struct {
	client *coursehub.Client
	store  TokenStore
}

func NewManager(client *coursehub.Client, store TokenStore) *Manager {
	return &Manager{client: client, store: store}
}

// New returns an uninitialized session for the given device id.
func (m *Manager) New(deviceID string) *Session {
	s := &Session{
		deviceID: deviceID,
		store:    m.store,
	}
	s.client = m.client.WithTokenSource(s)
	return s
}

// Session owns the current user and the device's stored token.
type Session struct {
	mu       sync.RWMutex
	deviceID string
	status   Status
	user     *model.User

	store  TokenStore
	client *coursehub.Client
}

// Token implements coursehub.TokenSource. A missing token is not an error.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Load(ctx, s.deviceID)
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	return token, err
}

// Hydrate revalidates the stored token. Any failure clears the token and
// leaves the session anonymous; the failure is returned for logging.
func (s *Session) Hydrate(ctx context.Context) error {
	s.setState(StatusLoading, nil)

	token, err := s.Token(ctx)
	if err != nil {
		s.setState(StatusAnonymous, nil)
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		s.setState(StatusAnonymous, nil)
		return nil
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.setState(StatusAnonymous, nil)
		if clearErr := s.store.Clear(ctx, s.deviceID); clearErr != nil {
			return errors.Join(fmt.Errorf("validate token: %w", err), fmt.Errorf("clear token: %w", clearErr))
		}
		return fmt.Errorf("validate token: %w", err)
	}

	s.setState(StatusAuthenticated, user)
	return nil
}

// Login authenticates with the backend and persists the token. On failure
// the session is unchanged.
func (s *Session) Login(ctx context.Context, req model.LoginRequest) error {
	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

// Signup registers a new account and signs it in.
func (s *Session) Signup(ctx context.Context, req model.SignupRequest) error {
	resp, err := s.client.Signup(ctx, req)
	if err != nil {
		return err
	}
	return s.establish(ctx, resp)
}

func (s *Session) establish(ctx context.Context, resp *model.AuthResponse) error {
	if err := s.store.Save(ctx, s.deviceID, resp.AccessToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	user := resp.User
	s.setState(StatusAuthenticated, &user)
	return nil
}

// Logout forgets the stored token. The backend is not contacted.
func (s *Session) Logout(ctx context.Context) error {
	s.setState(StatusAnonymous, nil)
	return s.store.Clear(ctx, s.deviceID)
}

func (s *Session) setState(status Status, user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.user = user
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// User returns a copy of the signed in user, nil when anonymous.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Session) IsAuthenticated() bool {
	return s.Status() == StatusAuthenticated
}

// IsProfessor is derived from the current user on every call.
func (s *Session) IsProfessor() bool {
	return s.User().IsProfessor()
}

// DeviceID returns the store key of this session.
func (s *Session) DeviceID() string {
	return s.deviceID
}

// Client returns the backend client authenticated as this session.
func (s *Session) Client() *coursehub.Client {
	return s.client
}

const localsKey = "session"

// Attach stores s on the request context.
func Attach(c *fiber.Ctx, s *Session) {
	c.Locals(localsKey, s)
}

// From returns the session attached by the session middleware. It panics
// when the middleware is not installed on the route.
func From(c *fiber.Ctx) *Session {
	s, ok := c.Locals(localsKey).(*Session)
	if !ok || s == nil {
		panic("session: no session on request context; is the session middleware installed?")
	}
	return s
}

// Lookup is From without the panic, for code that also runs outside the
// session middleware such as error handlers.
func Lookup(c *fiber.Ctx) (*Session, bool) {
	s, ok := c.Locals(localsKey).(*Session)
	return s, ok && s != nil
}
