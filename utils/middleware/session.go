package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/sahilchouksey/course-hub/services/session"
)

// DeviceCookie holds the id the token store is keyed by.
const DeviceCookie = "device_id"

// SessionConfig configures SessionMiddleware
type SessionConfig struct {
	Manager        *session.Manager
	CookieSecure   bool
	RequestTimeout time.Duration // applied to the request's user context, 0 disables
}

// SessionMiddleware gives every request a session hydrated from the
// browser's stored token. Browsers without a valid device cookie get a new one.
func SessionMiddleware(config SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if config.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, config.RequestTimeout)
			defer cancel()
			c.SetUserContext(ctx)
		}

		deviceID := c.Cookies(DeviceCookie)
		if _, err := uuid.Parse(deviceID); err != nil {
			deviceID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     DeviceCookie,
				Value:    deviceID,
				Path:     "/",
				Expires:  time.Now().AddDate(1, 0, 0),
				HTTPOnly: true,
				Secure:   config.CookieSecure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		s := config.Manager.New(deviceID)
		session.Attach(c, s)

		if err := s.Hydrate(ctx); err != nil {
			log.Warnw("session hydration failed", "device_id", deviceID, "error", err)
		}

		return c.Next()
	}
}
