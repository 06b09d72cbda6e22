package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/angelmondragon/shoppingcart/api/controllers"
	shoppingcartcontrollers "github.com/angelmondragon/shoppingcart/api/controllers/shoppingcart"
	"github.com/angelmondragon/shoppingcart/api/middleware"
	"github.com/angelmondragon/shoppingcart/internal/line"
	"github.com/angelmondragon/shoppingcart/internal/shoppingcart"
	"github.com/angelmondragon/shoppingcart/pkg/config"
	"github.com/angelmondragon/shoppingcart/pkg/db"
	"github.com/angelmondragon/shoppingcart/pkg/logger"
	"github.com/angelmondragon/shoppingcart/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	cartService shoppingcart.Service,
	lineService line.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	// A nil *redis.Client must not leak into the interfaces below.
	var (
		redisPinger      controllers.Pinger
		idempotencyStore redis.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RateLimit(newRateLimiter(cfg, redisClient, logg), logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Cache.IdempotencyTTL, logg))

		r.Route("/v1/shoppingcart", func(r chi.Router) {
			r.Get("/", shoppingcartcontrollers.CartsAvailable(cartService, logg))
			r.Post("/line", shoppingcartcontrollers.CartAddLine(lineService, logg))
			r.Get("/{shoppingCartId}", shoppingcartcontrollers.CartFindByID(cartService, logg))
		})
	})

	return r
}

// newRateLimiter shares counters through redis when it is available and keeps
// them in process otherwise.
func newRateLimiter(cfg *config.Config, redisClient *redis.Client, logg *logger.Logger) *limiter.Limiter {
	if !cfg.RateLimit.Enabled() {
		return nil
	}
	rate, err := cfg.RateLimit.ParsedRate()
	if err != nil {
		logg.Error(context.Background(), "invalid rate limit, limiting disabled", err)
		return nil
	}

	store := memory.NewStore()
	if redisClient != nil {
		shared, err := redisClient.LimiterStore()
		if err != nil {
			logg.Error(context.Background(), "redis rate limit store unavailable, using memory store", err)
		} else {
			store = shared
		}
	}
	return limiter.New(store, rate)
}
