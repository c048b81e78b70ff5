// Package page renders server-side pages with the shared layout data and
// turns backend failures into the page's error banner.
package page

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/services/session"
	"github.com/sahilchouksey/course-hub/utils/flash"
	"github.com/sahilchouksey/course-hub/utils/middleware"
)

// SessionExpiredMessage is flashed when the backend rejects the stored token.
const SessionExpiredMessage = "Your session has expired. Please log in again."

// Render writes template name with the layout keys filled in: Title,
// Authenticated, User, IsProfessor, Flash and Error. Keys already present
// in data are kept.
func Render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	authenticated := false
	if s, ok := session.Lookup(c); ok {
		authenticated = s.IsAuthenticated()
		data["User"] = s.User()
		data["IsProfessor"] = s.IsProfessor()
	}
	data["Authenticated"] = authenticated

	setDefault(data, "Title", "Course Hub")
	setDefault(data, "Error", "")
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = flash.Pop(c)
	}

	return c.Status(status).Render(name, data)
}

func setDefault(data fiber.Map, key string, value interface{}) {
	if _, ok := data[key]; !ok {
		data[key] = value
	}
}

// Redirect sends a 303 so the browser follows with a GET.
func Redirect(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}

// StatusFor maps a backend error onto the status of the page that shows it.
// Unreachable backends and undecodable answers are a bad gateway.
func StatusFor(err error) int {
	var apiErr *coursehub.APIError
	if !errors.As(err, &apiErr) {
		return fiber.StatusInternalServerError
	}
	if apiErr.Kind == coursehub.KindHTTP && apiErr.Status >= 400 {
		return apiErr.Status
	}
	return fiber.StatusBadGateway
}

// LoadFailed handles a failed page load. A rejected token ends the session
// and sends the user to login; anything else renders the error page.
func LoadFailed(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, coursehub.ErrUnauthorized) {
		return expired(c, c.OriginalURL())
	}

	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Warnw("page load failed", "path", c.Path(), "status", status, "error", err)
	}
	return Render(c, status, "error", fiber.Map{
		"Title":  http.StatusText(status),
		"Status": status,
		"Error":  coursehub.Message(err, fallback),
	})
}

// MutationFailed handles a failed form submission by flashing the backend's
// message and going back to the page the form lives on.
func MutationFailed(c *fiber.Ctx, err error, back, fallback string) error {
	if errors.Is(err, coursehub.ErrUnauthorized) {
		return expired(c, back)
	}
	if StatusFor(err) >= fiber.StatusInternalServerError {
		log.Warnw("mutation failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	flash.Error(c, coursehub.Message(err, fallback))
	return Redirect(c, back)
}

func expired(c *fiber.Ctx, next string) error {
	if s, ok := session.Lookup(c); ok {
		if err := s.Logout(c.UserContext()); err != nil {
			log.Warnw("failed to clear expired session", "device_id", s.DeviceID(), "error", err)
		}
	}
	flash.Error(c, SessionExpiredMessage)
	return Redirect(c, middleware.LoginURL(next))
}

// ParamID parses a positive integer route parameter. Anything else is a 404.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// ErrorHandler renders errors that escaped the handlers as the error page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again."

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
		if status == fiber.StatusNotFound {
			message = "Page not found"
		}
	} else {
		log.Errorw("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}

	renderErr := Render(c, status, "error", fiber.Map{
		"Title":  http.StatusText(status),
		"Status": status,
		"Error":  message,
		"Flash":  nil,
	})
	if renderErr != nil {
		log.Errorw("failed to render error page", "error", renderErr)
		return c.Status(status).SendString(message)
	}
	return nil
}
