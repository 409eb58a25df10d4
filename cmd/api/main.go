package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vkarpenko/shareit-go/api/routes"
	"github.com/vkarpenko/shareit-go/internal/bookings"
	"github.com/vkarpenko/shareit-go/internal/items"
	"github.com/vkarpenko/shareit-go/internal/requests"
	"github.com/vkarpenko/shareit-go/internal/users"
	"github.com/vkarpenko/shareit-go/pkg/config"
	"github.com/vkarpenko/shareit-go/pkg/db"
	"github.com/vkarpenko/shareit-go/pkg/logger"
	"github.com/vkarpenko/shareit-go/pkg/metrics"
	"github.com/vkarpenko/shareit-go/pkg/migrate"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := items.NewRepository(dbClient.DB())
	commentRepo := items.NewCommentRepository(dbClient.DB())
	requestRepo := requests.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())

	userService, err := users.NewService(userRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(requestRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	itemService, err := items.NewService(items.ServiceParams{
		Items:    itemRepo,
		Comments: commentRepo,
		Users:    userRepo,
		Requests: requestRepo,
		Bookings: bookingRepo,
		Tx:       dbClient,
		Logg:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	bookingService, err := bookings.NewService(bookings.ServiceParams{
		Repo:  bookingRepo,
		Users: userRepo,
		Items: itemRepo,
		Tx:    dbClient,
		Logg:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Registry: registry,
			Metrics:  httpMetrics,
			Users:    userService,
			Items:    itemService,
			Requests: requestService,
			Bookings: bookingService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
