package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/services/session"
	"github.com/sahilchouksey/course-hub/views"
)

func newManager() *session.Manager {
	client := coursehub.NewClient(coursehub.Config{BaseURL: "http://127.0.0.1:1/api"})
	return session.NewManager(client, session.NewMemoryTokenStore())
}

func newPageApp() *fiber.App {
	return fiber.New(fiber.Config{Views: views.NewEngine(), ViewsLayout: views.Layout})
}

func TestIsLocalPath(t *testing.T) {
	cases := map[string]bool{
		"/courses":             true,
		"/courses/1?tab=notes": true,
		"/":                    true,
		"":                     false,
		"courses":              false,
		"//evil.example.com":   false,
		"https://evil.example": false,
		`/\evil.example.com`:   false,
		"javascript:alert(1)":  false,
		"/notes/3#comments":    true,
	}
	for p, want := range cases {
		assert.Equal(t, want, IsLocalPath(p), p)
	}
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/courses/7", SafeNext("/courses/7"))
	assert.Equal(t, DefaultLandingPath, SafeNext(""))
	assert.Equal(t, DefaultLandingPath, SafeNext("//evil.example.com"))
	assert.Equal(t, DefaultLandingPath, SafeNext("/login?next=/courses"))
	assert.Equal(t, DefaultLandingPath, SafeNext("/signup"))
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login?next=%2Fcourses%2F5", LoginURL("/courses/5"))
	assert.Equal(t, "/login", LoginURL("/"))
	assert.Equal(t, "/login", LoginURL("https://evil.example.com"))
}

func TestGuardAnonymousRedirects(t *testing.T) {
	app := newPageApp()
	app.Use(SessionMiddleware(SessionConfig{Manager: newManager()}))
	app.Get("/courses/:id", Guard(), func(c *fiber.Ctx) error {
		return c.SendString("secret")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/courses/5?tab=topics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fcourses%2F5%3Ftab%3Dtopics", resp.Header.Get(fiber.HeaderLocation))
}

func TestGuardShowsPlaceholderWhileLoading(t *testing.T) {
	manager := newManager()
	app := newPageApp()
	app.Use(func(c *fiber.Ctx) error {
		// Never hydrated.
		session.Attach(c, manager.New(uuid.NewString()))
		return c.Next()
	})
	app.Get("/courses", Guard(), func(c *fiber.Ctx) error {
		return c.SendString("secret")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/courses", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestSessionMiddlewareDeviceCookie(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware(SessionConfig{Manager: newManager()}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(session.From(c).DeviceID())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	var issued *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == DeviceCookie {
			issued = cookie
		}
	}
	require.NotNil(t, issued)
	_, err = uuid.Parse(issued.Value)
	assert.NoError(t, err)
	assert.True(t, issued.HttpOnly)

	known := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DeviceCookie, Value: known})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DeviceCookie, Value: "not-a-uuid"})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Len(t, resp.Cookies(), 1)
	assert.NotEqual(t, "not-a-uuid", resp.Cookies()[0].Value)
}
