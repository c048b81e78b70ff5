package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// APIServer owns the fiber app and the address it listens on
type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string, config fiber.Config) *APIServer {
	return &APIServer{
		app:           fiber.New(config),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Infow("starting web server", "addr", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for open requests
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
