package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/course-hub/handlers/page"
	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/services/session"
	"github.com/sahilchouksey/course-hub/utils/flash"
	"github.com/sahilchouksey/course-hub/utils/middleware"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

// AuthHandler serves the login, signup and logout pages
type AuthHandler struct {
	validator            *validation.Validator
	bruteForceProtection *middleware.BruteForceProtection
}

// NewAuthHandler creates a new auth handler. bruteForceProtection may be nil.
func NewAuthHandler(bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		validator:            validation.NewValidator(),
		bruteForceProtection: bruteForceProtection,
	}
}

// ShowSignup handles GET /signup
func (h *AuthHandler) ShowSignup(c *fiber.Ctx) error {
	if session.From(c).IsAuthenticated() {
		return page.Redirect(c, middleware.DefaultLandingPath)
	}
	return h.renderSignup(c, fiber.StatusOK, model.SignupRequest{Role: model.RoleStudent}, "")
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req model.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return h.renderSignup(c, fiber.StatusBadRequest, req, "Invalid form submission")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validator.ValidateStruct(&req); err != nil {
		return h.renderSignup(c, fiber.StatusUnprocessableEntity, req, validation.Describe(err))
	}

	s := session.From(c)
	if err := s.Signup(c.UserContext(), req); err != nil {
		log.Infow("signup rejected", "username", req.Username, "error", err)
		return h.renderSignup(c, page.StatusFor(err), req, coursehub.Message(err, "Signup failed"))
	}

	flash.Success(c, "Welcome to Course Hub, "+req.Username+"!")
	return page.Redirect(c, middleware.DefaultLandingPath)
}

func (h *AuthHandler) renderSignup(c *fiber.Ctx, status int, form model.SignupRequest, message string) error {
	form.Password = ""
	return page.Render(c, status, "signup", fiber.Map{
		"Title": "Sign up",
		"Form":  form,
		"Error": message,
	})
}
