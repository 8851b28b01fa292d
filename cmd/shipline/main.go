package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shipline/shipline/internal/app"
	"github.com/shipline/shipline/internal/catalog"
	"github.com/shipline/shipline/internal/customers"
	"github.com/shipline/shipline/internal/orders"
	"github.com/shipline/shipline/internal/packages"
	"github.com/shipline/shipline/internal/pickup"
	"github.com/shipline/shipline/internal/platform/db"
	"github.com/shipline/shipline/internal/pricing"
	"github.com/shipline/shipline/internal/reference"
	"github.com/shipline/shipline/internal/shared"
	"github.com/shipline/shipline/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	identityStore := shared.NewIdentityStore(redisClient, cfg.SessionPrefix, cfg.SessionTTL)
	activityLogger := shared.NewActivityLogger(dbpool, logger)

	fileStore, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Error("init upload store", slog.Any("error", err))
		os.Exit(1)
	}

	boxCatalog := catalog.NewRepository(dbpool)
	refGenerator := reference.NewGenerator()

	pricingHandler := pricing.NewHandler(logger)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo, fileStore)
	customersHandler := customers.NewHandler(logger, customersService, fileStore)

	pickupRepo := pickup.NewRepository(dbpool, refGenerator)
	pickupService := pickup.NewService(pickupRepo, activityLogger, customersService, boxCatalog)
	pickupHandler := pickup.NewHandler(logger, pickupService, fileStore)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo, activityLogger)
	ordersHandler := orders.NewHandler(logger, ordersService)

	packagesRepo := packages.NewRepository(dbpool)
	packagesService := packages.NewService(packagesRepo, boxCatalog)
	packagesHandler := packages.NewHandler(logger, packagesService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		IdentityStore:    identityStore,
		Pool:             dbpool,
		PricingHandler:   pricingHandler,
		PickupHandler:    pickupHandler,
		OrdersHandler:    ordersHandler,
		PackagesHandler:  packagesHandler,
		CustomersHandler: customersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
