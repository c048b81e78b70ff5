package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/course-hub/handlers/page"
	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/services/session"
	"github.com/sahilchouksey/course-hub/utils/flash"
	"github.com/sahilchouksey/course-hub/utils/middleware"
)

// ShowLogin handles GET /login. Signed in users skip straight to next.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	next := c.Query("next")
	if session.From(c).IsAuthenticated() {
		return page.Redirect(c, middleware.SafeNext(next))
	}
	return h.renderLogin(c, fiber.StatusOK, next, "", "")
}

// Login handles POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	next := c.FormValue("next")

	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.renderLogin(c, fiber.StatusBadRequest, next, "", "Invalid form submission")
	}
	req.Username = strings.TrimSpace(req.Username)

	if err := h.validator.ValidateStruct(&req); err != nil {
		return h.renderLogin(c, fiber.StatusUnprocessableEntity, next, req.Username, "Username and password are required")
	}

	s := session.From(c)
	if err := s.Login(c.UserContext(), req); err != nil {
		log.Infow("login rejected", "username", req.Username, "error", err)
		if h.bruteForceProtection != nil && errors.Is(err, coursehub.ErrUnauthorized) {
			h.bruteForceProtection.RecordFailedAttempt(c, req.Username)
		}
		return h.renderLogin(c, page.StatusFor(err), next, req.Username, coursehub.Message(err, "Login failed"))
	}
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c)
	}

	flash.Success(c, "Welcome back, "+req.Username+"!")
	return page.Redirect(c, middleware.SafeNext(next))
}

// Logout handles POST /logout. Only the local token is forgotten.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s := session.From(c)
	if err := s.Logout(c.UserContext()); err != nil {
		log.Errorw("failed to clear session", "device_id", s.DeviceID(), "error", err)
		flash.Error(c, "Logout failed. Please try again.")
		return page.Redirect(c, "/")
	}

	flash.Success(c, "You have been logged out")
	return page.Redirect(c, "/login")
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, next, username, message string) error {
	return page.Render(c, status, "login", fiber.Map{
		"Title":    "Login",
		"Next":     next,
		"Username": username,
		"Error":    message,
	})
}
