package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/greenbasket/greenbasket-backend/api/controllers"
	"github.com/greenbasket/greenbasket-backend/api/routes"
	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/internal/coupons"
	"github.com/greenbasket/greenbasket-backend/internal/orders"
	"github.com/greenbasket/greenbasket-backend/internal/products"
	"github.com/greenbasket/greenbasket-backend/internal/reviews"
	"github.com/greenbasket/greenbasket-backend/internal/subscriptions"
	"github.com/greenbasket/greenbasket-backend/internal/wishlist"
	"github.com/greenbasket/greenbasket-backend/pkg/config"
	"github.com/greenbasket/greenbasket-backend/pkg/db"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/metrics"
	"github.com/greenbasket/greenbasket-backend/pkg/migrate"
	"github.com/greenbasket/greenbasket-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Options{ServiceName: "greenbasket-api"})
		fallback.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "greenbasket-api",
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

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "auto migration failed", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect to redis", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)

	authority, err := buildCouponAuthority(cfg, dbClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to build coupon authority", err)
		os.Exit(1)
	}

	snapshots, err := cart.NewRedisSnapshots(redisClient, cfg.Cart.SnapshotTTL)
	if err != nil {
		logg.Error(ctx, "failed to build snapshot store", err)
		os.Exit(1)
	}
	manager, err := cart.NewManager(cart.ManagerParams{
		Authority:  authority,
		Snapshots:  snapshots,
		Metrics:    cartMetrics,
		Logger:     logg,
		EvictAfter: cfg.Cart.EvictIdleFor,
	})
	if err != nil {
		logg.Error(ctx, "failed to build cart manager", err)
		os.Exit(1)
	}

	productsRepo, err := products.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to build products repository", err)
		os.Exit(1)
	}
	productsService, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(ctx, "failed to build products service", err)
		os.Exit(1)
	}

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

	ordersRepo, err := orders.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to build orders repository", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:          ordersRepo,
		ProductsRepo:  productsRepo,
		Subscriptions: subsService,
		Tx:            dbClient,
	})
	if err != nil {
		logg.Error(ctx, "failed to build orders service", err)
		os.Exit(1)
	}

	wishlistRepo, err := wishlist.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to build wishlist repository", err)
		os.Exit(1)
	}
	wishlistService, err := wishlist.NewService(wishlistRepo)
	if err != nil {
		logg.Error(ctx, "failed to build wishlist service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to build reviews service", err)
		os.Exit(1)
	}

	health := controllers.NewHealthController(logg)
	health.AddCheck("database", func(r *http.Request) error {
		return dbClient.Ping(r.Context())
	})
	health.AddCheck("redis", func(r *http.Request) error {
		return redisClient.Ping(r.Context())
	})

	productsController, err := controllers.NewProductsController(productsService, logg)
	if err != nil {
		logg.Error(ctx, "failed to build products controller", err)
		os.Exit(1)
	}
	cartController, err := controllers.NewCartController(manager, productsService, logg)
	if err != nil {
		logg.Error(ctx, "failed to build cart controller", err)
		os.Exit(1)
	}
	ordersController, err := controllers.NewOrdersController(ordersService, manager, logg)
	if err != nil {
		logg.Error(ctx, "failed to build orders controller", err)
		os.Exit(1)
	}
	subsController, err := controllers.NewSubscriptionsController(subsService, logg)
	if err != nil {
		logg.Error(ctx, "failed to build subscriptions controller", err)
		os.Exit(1)
	}
	wishlistController, err := controllers.NewWishlistController(wishlistService, logg)
	if err != nil {
		logg.Error(ctx, "failed to build wishlist controller", err)
		os.Exit(1)
	}
	reviewsController, err := controllers.NewReviewsController(reviewsService, logg)
	if err != nil {
		logg.Error(ctx, "failed to build reviews controller", err)
		os.Exit(1)
	}

	router := routes.New(routes.Controllers{
		Health:        health,
		Products:      productsController,
		Cart:          cartController,
		Orders:        ordersController,
		Subscriptions: subsController,
		Wishlist:      wishlistController,
		Reviews:       reviewsController,
	}, logg, registry)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "api listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "server failed", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
	logg.Info(context.Background(), "api stopped")
}

func buildCouponAuthority(cfg *config.Config, dbClient *db.Client, logg *logger.Logger) (coupons.Authority, error) {
	if !cfg.Coupons.UseTable() {
		return coupons.NewStatic(coupons.DefaultCodes()), nil
	}
	repo, err := coupons.NewRepository(dbClient.DB())
	if err != nil {
		return nil, err
	}
	return coupons.NewTableAuthority(repo, logg)
}
