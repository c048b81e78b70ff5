package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/course-hub/services/cron"
)

// StatusReporter exposes the last backend probe
type StatusReporter interface {
	Status() cron.ProbeResult
}

// HandleCheckHealth reports frontend liveness and the last backend probe.
// The frontend is alive even when the backend is not, so this is always 200.
func HandleCheckHealth(monitor StatusReporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok"}
		if monitor != nil {
			body["backend"] = monitor.Status()
		}
		return c.JSON(body)
	}
}
