// Command devapi serves the Course Hub REST API for local development.
package main

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/course-hub/config"
	"github.com/sahilchouksey/course-hub/database"
	"github.com/sahilchouksey/course-hub/devapi"
	"github.com/sahilchouksey/course-hub/utils/auth"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}
	if env.JWT_SECRET == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	store, err := database.Open(env)
	if err != nil {
		log.Warnw("check that the database is running", "driver", env.DB_DRIVER)
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize database tables: %w", err)
	}

	app := devapi.New(store.DB(), devapi.Config{
		JWT: auth.JWTConfig{
			Secret: env.JWT_SECRET,
			Expiry: env.JWT_EXPIRY,
			Issuer: env.JWT_ISSUER,
		},
		BcryptCost:        env.BCRYPT_COST,
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
	})

	addr := fmt.Sprintf(":%d", env.DEVAPI_PORT)
	log.Infow("starting reference API", "addr", addr, "driver", env.DB_DRIVER)
	return app.Listen(addr)
}
