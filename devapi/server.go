// Package devapi is the reference implementation of the Course Hub REST API
// used for local development and end-to-end tests of the web frontend.
package devapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/sahilchouksey/course-hub/model"
	"github.com/sahilchouksey/course-hub/utils/auth"
	"github.com/sahilchouksey/course-hub/utils/middleware"
	"github.com/sahilchouksey/course-hub/utils/response"
	"github.com/sahilchouksey/course-hub/utils/validation"
)

// Config holds the reference backend configuration
type Config struct {
	JWT               auth.JWTConfig
	BcryptCost        int
	AllowedOrigins    string
	RateLimitRequests int
	DisableLogger     bool
}

type handler struct {
	db        *gorm.DB
	jwt       *auth.JWTManager
	hasher    *auth.Hasher
	validator *validation.Validator
}

// New returns the fiber app serving the REST API under /api
func New(db *gorm.DB, config Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Course Hub API",
		ErrorHandler: errorHandler,
		ReadTimeout:  15 * time.Second,
	})

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    config.AllowedOrigins,
		RateLimitRequests: config.RateLimitRequests,
		RateLimitWindow:   time.Minute,
		DisableLogger:     config.DisableLogger,
	})

	h := &handler{
		db:        db,
		jwt:       auth.NewJWTManager(config.JWT),
		hasher:    auth.NewHasher(config.BcryptCost),
		validator: validation.NewValidator(),
	}
	authMiddleware := middleware.NewAuthMiddleware(h.jwt, db)
	required := authMiddleware.Required()
	professor := func(message string) fiber.Handler {
		return authMiddleware.RequireRole(message, model.RoleProfessor)
	}

	api := app.Group("/api")
	api.Get("/health", h.health)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", h.signup)
	authRoutes.Post("/login", h.login)
	authRoutes.Get("/me", required, h.me)

	courses := api.Group("/courses", required)
	courses.Get("/", h.listCourses)
	courses.Post("/", professor("Only professors can create courses"), h.createCourse)
	courses.Get("/:id", h.getCourse)
	courses.Put("/:id", professor("Only professors can edit courses"), h.updateCourse)
	courses.Delete("/:id", professor("Only professors can delete courses"), h.deleteCourse)
	courses.Post("/:id/enroll", h.enroll)

	topics := api.Group("/topics", required)
	topics.Get("/course/:courseID", h.listTopics)
	topics.Post("/", professor("Only professors can create topics"), h.createTopic)
	topics.Get("/:id", h.getTopic)
	topics.Put("/:id", professor("Only professors can edit topics"), h.updateTopic)
	topics.Delete("/:id", professor("Only professors can delete topics"), h.deleteTopic)

	notes := api.Group("/notes", required)
	notes.Get("/topic/:topicID", h.listNotes)
	notes.Post("/", h.createNote)
	notes.Get("/:id", h.getNote)
	notes.Put("/:id", h.updateNote)
	notes.Delete("/:id", h.deleteNote)
	notes.Post("/:id/like", h.likeNote)
	notes.Get("/:id/comments", h.listComments)
	notes.Post("/:id/comments", h.addComment)

	return app
}

func (h *handler) health(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		log.Errorw("database ping failed", "error", err)
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable", "UNAVAILABLE")
	}
	return response.Success(c, model.HealthStatus{Status: "healthy"})
}

// errorHandler renders every unhandled error in the API error shape
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Errorw("unhandled API error", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return response.Error(c, code, message, "")
}

// paramID parses a positive integer route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// parseBody decodes and validates a JSON body. On failure it has already
// written the response and returns false.
func (h *handler) parseBody(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, response.Error(c, fiber.StatusUnprocessableEntity, "Invalid request body", "VALIDATION_ERROR")
	}
	if err := h.validator.ValidateStruct(dst); err != nil {
		return false, response.ValidationError(c, err)
	}
	return true, nil
}

func currentUser(c *fiber.Ctx) *model.User {
	user, _ := middleware.GetUser(c)
	return user
}
