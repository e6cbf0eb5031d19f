package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/internal/coupons"
	"github.com/greenbasket/greenbasket-backend/internal/cron"
	"github.com/greenbasket/greenbasket-backend/internal/subscriptions"
	"github.com/greenbasket/greenbasket-backend/pkg/config"
	"github.com/greenbasket/greenbasket-backend/pkg/db"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/metrics"
	"github.com/greenbasket/greenbasket-backend/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Options{ServiceName: "greenbasket-cron"})
		fallback.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "greenbasket-cron",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect to redis", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	jobMetrics := metrics.NewCronJobMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	subsRepo, err := subscriptions.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to build subscriptions repository", err)
		os.Exit(1)
	}
	subsService, err := subscriptions.NewService(subsRepo)
	if err != nil {
		logg.Error(ctx, "failed to build subscriptions service", err)
		os.Exit(1)
	}
	couponsRepo, err := coupons.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to build coupons repository", err)
		os.Exit(1)
	}

	snapshots, err := cart.NewRedisSnapshots(redisClient, cfg.Cart.SnapshotTTL)
	if err != nil {
		logg.Error(ctx, "failed to build snapshot store", err)
		os.Exit(1)
	}
	manager, err := cart.NewManager(cart.ManagerParams{
		Authority:  coupons.NewStatic(coupons.DefaultCodes()),
		Snapshots:  snapshots,
		Metrics:    cartMetrics,
		Logger:     logg,
		EvictAfter: cfg.Cart.EvictIdleFor,
	})
	if err != nil {
		logg.Error(ctx, "failed to build cart manager", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(ctx, "failed to build cron lock", err)
		os.Exit(1)
	}

	registryJobs := cron.NewRegistry()
	registryJobs.Register(cron.NewSubscriptionDeliveryJob(subsService, logg))
	registryJobs.Register(cron.NewCouponExpiryJob(couponsRepo, logg))
	registryJobs.Register(cron.NewCartEvictionJob(manager, logg))

	service, err := cron.NewService(cron.ServiceParams{
		Registry: registryJobs,
		Locker:   lock,
		Logger:   logg,
		Metrics:  jobMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to build cron service", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker started")
	if err := service.Start(ctx); err != nil && err != context.Canceled {
		logg.Error(ctx, "cron worker stopped with error", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "cron worker stopped")
}
