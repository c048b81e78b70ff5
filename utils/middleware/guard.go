package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/course-hub/services/session"
)

// DefaultLandingPath is where users go after login without a usable "next".
const DefaultLandingPath = "/courses"

// Guard protects routes that need a signed in user. A session still
// loading gets the placeholder page, an anonymous one is sent to /login
// with the requested path in "next".
func Guard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := session.From(c)

		switch s.Status() {
		case session.StatusAuthenticated:
			return c.Next()
		case session.StatusLoading, session.StatusUninitialized:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).Render("loading", fiber.Map{
				"Title": "Loading",
			})
		default:
			return c.Redirect(LoginURL(c.OriginalURL()), fiber.StatusSeeOther)
		}
	}
}

// LoginURL returns the login page URL that comes back to next afterwards.
func LoginURL(next string) string {
	if !IsLocalPath(next) || next == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local absolute path and DefaultLandingPath otherwise.
func SafeNext(next string) string {
	if IsLocalPath(next) && !strings.HasPrefix(next, "/login") && !strings.HasPrefix(next, "/signup") {
		return next
	}
	return DefaultLandingPath
}

// IsLocalPath reports whether p is an absolute path on this host.
func IsLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == ""
}
