package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/shoppingcart/api/routes"
	"github.com/angelmondragon/shoppingcart/internal/line"
	"github.com/angelmondragon/shoppingcart/internal/shoppingcart"
	"github.com/angelmondragon/shoppingcart/pkg/catalog"
	"github.com/angelmondragon/shoppingcart/pkg/config"
	"github.com/angelmondragon/shoppingcart/pkg/db"
	"github.com/angelmondragon/shoppingcart/pkg/logger"
	"github.com/angelmondragon/shoppingcart/pkg/metrics"
	"github.com/angelmondragon/shoppingcart/pkg/migrate"
	"github.com/angelmondragon/shoppingcart/pkg/redis"
	"github.com/angelmondragon/shoppingcart/pkg/restaurants"
	"github.com/angelmondragon/shoppingcart/pkg/upstream"
	"github.com/angelmondragon/shoppingcart/pkg/users"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeAutoMigrate(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run auto migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	defer func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	upstreamOpts := []upstream.Option{upstream.WithTimeout(cfg.Services.Timeout)}

	catalogClient, err := catalog.NewClient(cfg.Services.ProductBaseURL, upstreamOpts...)
	requireResource(ctx, logg, "product service client", err)

	restaurantClient, err := restaurants.NewClient(cfg.Services.RestaurantBaseURL, upstreamOpts...)
	requireResource(ctx, logg, "restaurant service client", err)

	restaurantDirectory, err := restaurants.NewCachedDirectory(restaurantClient, redisClient, cfg.Cache.RestaurantLocationTTL, logg)
	requireResource(ctx, logg, "restaurant directory", err)

	userClient, err := users.NewClient(cfg.Services.UserBaseURL, upstreamOpts...)
	requireResource(ctx, logg, "user service client", err)

	var distance shoppingcart.DistanceCalculator = shoppingcart.HaversineDistance{}
	if cfg.FeatureFlags.UsePostGIS() {
		distance = shoppingcart.NewPostGISDistance(dbClient.DB())
	}

	shipping, err := shoppingcart.NewShippingEstimator(shoppingcart.ShippingRates{
		BaseCost:         cfg.Shipping.BaseCostDecimal(),
		StepCost:         cfg.Shipping.StepCostDecimal(),
		FreeRadiusMeters: cfg.Shipping.FreeRadiusMeters,
		StepMeters:       cfg.Shipping.StepMeters,
	})
	requireResource(ctx, logg, "shipping estimator", err)

	cartRepo := shoppingcart.NewRepository(dbClient.DB())
	lineRepo := shoppingcart.NewLineRepository(dbClient.DB())

	cartService, err := shoppingcart.NewService(shoppingcart.ServiceParams{
		Carts:       cartRepo,
		Lines:       lineRepo,
		Tx:          dbClient,
		Prices:      catalogClient,
		Restaurants: restaurantDirectory,
		Addresses:   userClient,
		Distance:    distance,
		Shipping:    shipping,
		Metrics:     metrics.NewCartMetrics(prometheus.DefaultRegisterer),
		Logger:      logg,
	})
	requireResource(ctx, logg, "shopping cart service", err)

	lineService, err := line.NewService(cartRepo, lineRepo, dbClient, catalogClient, logg)
	requireResource(ctx, logg, "line service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"distance_mode": cfg.FeatureFlags.DistanceMode,
		"dialect":       dbClient.Dialect(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, promhttp.Handler(), cartService, lineService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
