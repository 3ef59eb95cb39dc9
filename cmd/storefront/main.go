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
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nassimkhelifi/boutiqa-storefront/api/routes"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/cart"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/checkout"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/delivery"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/promo"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/session"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/config"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/localstore"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/metrics"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	store, err := localstore.OpenSQLite(ctx, cfg.LocalStore, logg)
	if err != nil {
		logg.Error(ctx, "failed to open local store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(ctx, "error closing local store", err)
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, delivery-rate cache disabled")
	}

	upstream, err := backend.NewClient(cfg.Upstream.BaseURL, backend.WithTimeout(cfg.Upstream.Timeout))
	if err != nil {
		logg.Error(ctx, "failed to build backend client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	cartService, err := cart.NewService(ctx, store, upstream, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build cart service", err)
		os.Exit(1)
	}
	cartService.Subscribe(func() {
		logg.Info(ctx, "cart updated")
	})

	promoValidator, err := promo.NewValidator(ctx, upstream, store, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build promo validator", err)
		os.Exit(1)
	}

	deliveryService, err := delivery.NewService(upstream, redisClient, cfg.Delivery.CacheTTL, logg)
	if err != nil {
		logg.Error(ctx, "failed to build delivery service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartService, promoValidator, deliveryService, upstream, logg, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build checkout service", err)
		os.Exit(1)
	}

	sessionHolder, err := session.NewHolder(ctx, store)
	if err != nil {
		logg.Error(ctx, "failed to build session holder", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		LocalStore:   store,
		Redis:        redisClient,
		Products:     upstream,
		Cart:         cartService,
		Promo:        promoValidator,
		Delivery:     deliveryService,
		Checkout:     checkoutService,
		Session:      sessionHolder,
		PromRegistry: registry,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "storefront listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server error", err)
			os.Exit(1)
		}
	case <-stop:
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
