package app

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/course-hub/api"
	"github.com/sahilchouksey/course-hub/config"
	"github.com/sahilchouksey/course-hub/handlers"
	"github.com/sahilchouksey/course-hub/handlers/page"
	"github.com/sahilchouksey/course-hub/router"
	"github.com/sahilchouksey/course-hub/services/coursehub"
	"github.com/sahilchouksey/course-hub/services/cron"
	"github.com/sahilchouksey/course-hub/services/session"
	"github.com/sahilchouksey/course-hub/utils/cache"
	"github.com/sahilchouksey/course-hub/utils/middleware"
	"github.com/sahilchouksey/course-hub/views"
)

const (
	tokenKeyPrefix = "coursehub:token:"
	loginKeyPrefix = "coursehub:login:"
)

// Options configure the web frontend
type Options struct {
	Client         *coursehub.Client
	Tokens         session.TokenStore
	Monitor        handlers.StatusReporter
	LoginThrottle  *middleware.BruteForceProtection
	CookieSecure   bool
	RequestTimeout time.Duration
	RateLimit      int
	DisableLogger  bool
}

// NewServer builds the web frontend listening on addr
func NewServer(addr string, opts Options) *api.APIServer {
	server := api.NewAPIServer(addr, fiber.Config{
		AppName:      "Course Hub",
		Views:        views.NewEngine(),
		ViewsLayout:  views.Layout,
		ErrorHandler: page.ErrorHandler,
		ReadTimeout:  30 * time.Second,
	})
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		RateLimitRequests: opts.RateLimit,
		RateLimitWindow:   time.Minute,
		DisableLogger:     opts.DisableLogger,
	})

	router.SetupRoutes(app, router.Dependencies{
		Sessions:       session.NewManager(opts.Client, opts.Tokens),
		Monitor:        opts.Monitor,
		LoginThrottle:  opts.LoginThrottle,
		CookieSecure:   opts.CookieSecure,
		RequestTimeout: opts.RequestTimeout,
	})

	return server
}

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	client := coursehub.NewClient(coursehub.Config{
		BaseURL: env.API_BASE_URL,
		Timeout: env.REQUEST_TIMEOUT,
	})

	// Sessions and login lockouts live in Redis when it is available
	var (
		tokens        session.TokenStore = session.NewMemoryTokenStore()
		loginThrottle *middleware.BruteForceProtection
	)
	if redisCache := connectRedis(env); redisCache != nil {
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Warnw("failed to close Redis", "error", err)
			}
		}()
		tokens = session.NewRedisTokenStore(redisCache, env.TOKEN_TTL)
		loginThrottle = middleware.NewBruteForceProtection(redisCache.WithPrefix(loginKeyPrefix))
	}

	cronManager := cron.NewCronManager(client, env.HEALTH_PROBE_SCHEDULE, env.REQUEST_TIMEOUT)
	if err := cronManager.Start(); err != nil {
		return fmt.Errorf("start backend health monitor: %w", err)
	}
	defer cronManager.Stop()

	server := NewServer(fmt.Sprintf(":%d", env.PORT), Options{
		Client:         client,
		Tokens:         tokens,
		Monitor:        cronManager,
		LoginThrottle:  loginThrottle,
		CookieSecure:   env.COOKIE_SECURE,
		RequestTimeout: env.REQUEST_TIMEOUT,
		RateLimit:      env.RATE_LIMIT_REQUESTS,
	})

	log.Infow("backend", "base_url", client.BaseURL())
	return server.Run()
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; the
// frontend then keeps sessions in memory without login lockouts.
func connectRedis(env *config.EnvironmentVariable) *cache.RedisCache {
	if env.REDIS_URL == "" {
		log.Infow("REDIS_URL not set, sessions are kept in memory")
		return nil
	}

	redisCache, err := cache.NewRedisCache(env.REDIS_URL, tokenKeyPrefix)
	if err != nil {
		log.Warnw("failed to connect to Redis, sessions are kept in memory", "error", err)
		return nil
	}
	return redisCache
}
