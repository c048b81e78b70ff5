package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/course-hub/handlers/page"
)

// HandleHome renders the landing page
func HandleHome(c *fiber.Ctx) error {
	return page.Render(c, fiber.StatusOK, "home", fiber.Map{
		"Title": "Welcome",
	})
}
