package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/decantly/decantly-backend/api/routes"
	"github.com/decantly/decantly-backend/internal/auth"
	"github.com/decantly/decantly-backend/internal/cart"
	"github.com/decantly/decantly-backend/internal/catalog"
	"github.com/decantly/decantly-backend/internal/guestcart"
	"github.com/decantly/decantly-backend/internal/guestorders"
	"github.com/decantly/decantly-backend/internal/orders"
	"github.com/decantly/decantly-backend/internal/pricing"
	"github.com/decantly/decantly-backend/internal/users"
	"github.com/decantly/decantly-backend/pkg/config"
	"github.com/decantly/decantly-backend/pkg/db"
	"github.com/decantly/decantly-backend/pkg/logger"
	"github.com/decantly/decantly-backend/pkg/metrics"
	"github.com/decantly/decantly-backend/pkg/migrate"
	"github.com/decantly/decantly-backend/pkg/redis"
)

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	pricingService, err := pricing.NewService(pricing.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	guestCartRepo := guestcart.NewRepository(gormDB)
	guestCartService, err := guestcart.NewService(guestCartRepo, pricingService)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest cart service", err)
		os.Exit(1)
	}

	guestOrdersRepo := guestorders.NewRepository(gormDB)
	guestOrdersService, err := guestorders.NewService(guestOrdersRepo, guestCartRepo, pricingService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest orders service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(gormDB)
	cartService, err := cart.NewService(cartRepo, pricingService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(gormDB)
	ordersService, err := orders.NewService(ordersRepo, cartRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:          users.NewRepository(gormDB),
		GuestOrders:    guestOrdersRepo,
		Orders:         ordersRepo,
		Tx:             dbClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
			Catalog:     catalogService,
			GuestCart:   guestCartService,
			GuestOrders: guestOrdersService,
			Auth:        authService,
			Cart:        cartService,
			Orders:      ordersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
