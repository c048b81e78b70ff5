package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/sahilchouksey/course-hub/handlers"
	auth_handlers "github.com/sahilchouksey/course-hub/handlers/auth"
	course_handlers "github.com/sahilchouksey/course-hub/handlers/course"
	note_handlers "github.com/sahilchouksey/course-hub/handlers/note"
	topic_handlers "github.com/sahilchouksey/course-hub/handlers/topic"
	"github.com/sahilchouksey/course-hub/services/session"
	"github.com/sahilchouksey/course-hub/utils/middleware"
	"github.com/sahilchouksey/course-hub/views"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Sessions       *session.Manager
	Monitor        handlers.StatusReporter
	LoginThrottle  *middleware.BruteForceProtection // nil disables login lockouts
	CookieSecure   bool
	RequestTimeout time.Duration
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	// Public, session-free endpoints
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   views.Static(),
		MaxAge: 3600,
	}))
	app.Get("/healthz", handlers.HandleCheckHealth(deps.Monitor))

	// Every page below has a hydrated session
	app.Use(middleware.SessionMiddleware(middleware.SessionConfig{
		Manager:        deps.Sessions,
		CookieSecure:   deps.CookieSecure,
		RequestTimeout: deps.RequestTimeout,
	}))

	authHandler := auth_handlers.NewAuthHandler(deps.LoginThrottle)
	courseHandler := course_handlers.NewCourseHandler()
	topicHandler := topic_handlers.NewTopicHandler()
	noteHandler := note_handlers.NewNoteHandler()

	app.Get("/", handlers.HandleHome)
	app.Get("/login", authHandler.ShowLogin)
	if deps.LoginThrottle != nil {
		app.Post("/login", deps.LoginThrottle.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		app.Post("/login", authHandler.Login)
	}
	app.Get("/signup", authHandler.ShowSignup)
	app.Post("/signup", authHandler.Signup)
	app.Post("/logout", authHandler.Logout)

	guard := middleware.Guard()

	courses := app.Group("/courses", guard)
	courses.Get("/", courseHandler.ListCourses)
	courses.Post("/", courseHandler.CreateCourse)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Get("/:id/edit", courseHandler.EditCourse)
	courses.Post("/:id/edit", courseHandler.UpdateCourse)
	courses.Get("/:id/delete", courseHandler.ConfirmDeleteCourse)
	courses.Post("/:id/delete", courseHandler.DeleteCourse)
	courses.Post("/:id/enroll", courseHandler.Enroll)
	courses.Post("/:id/topics", courseHandler.CreateTopic)

	topics := app.Group("/topics", guard)
	topics.Get("/:id", topicHandler.GetTopic)
	topics.Get("/:id/edit", topicHandler.EditTopic)
	topics.Post("/:id/edit", topicHandler.UpdateTopic)
	topics.Get("/:id/delete", topicHandler.ConfirmDeleteTopic)
	topics.Post("/:id/delete", topicHandler.DeleteTopic)
	topics.Post("/:id/notes", topicHandler.CreateNote)

	notes := app.Group("/notes", guard)
	notes.Get("/:id", noteHandler.GetNote)
	notes.Get("/:id/edit", noteHandler.EditNote)
	notes.Post("/:id/edit", noteHandler.UpdateNote)
	notes.Get("/:id/delete", noteHandler.ConfirmDeleteNote)
	notes.Post("/:id/delete", noteHandler.DeleteNote)
	notes.Post("/:id/like", noteHandler.LikeNote)
	notes.Post("/:id/comments", noteHandler.AddComment)
}
