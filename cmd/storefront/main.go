// cmd/storefront/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/config"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/cart"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/checkout"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/payment"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/product"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/user"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/backend"
	redisdb "github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/database/redis"
	httpserver "github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/routes"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/logger"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	// Sessions and the cart cache live in Redis when configured, in process otherwise
	var (
		redisClient *redisdb.Client
		sessions    session.Store
		cartCache   cart.Cache
	)
	if cfg.UsesRedis() {
		redisClient, err = redisdb.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		sessions = session.NewRedisStore(redisClient.Redis, cfg.Session.TTL)
		cartCache = cart.NewRedisCache(redisClient, cfg.Session.CartCacheTTL)
	} else {
		sessions = session.NewMemoryStore(cfg.Session.TTL)
		cartCache = cart.NewMemoryCache(cfg.Session.CartCacheTTL)
	}

	api := backend.NewClient(cfg.Backend.BaseURL, sessions, http.DefaultTransport, log, recorder)

	cartService := cart.NewService(api, cartCache, log)
	cartService.Watch(sessions)

	var gateway checkout.Gateway
	if gw, err := payment.NewGateway(cfg.Stripe.PublishableKey, cfg.Stripe.APIBase, nil, log); err != nil {
		log.WithError(err).Warn("Payment gateway disabled; checkout will report the missing publishable key")
	} else {
		gateway = gw
	}

	attempts := checkout.NewRegistry(cfg.Checkout.AttemptTTL)
	attempts.Watch(sessions)

	flow := checkout.NewFlow(checkout.Config{
		PublishableKey: cfg.Stripe.PublishableKey,
		BackendURL:     cfg.Backend.BaseURL,
		Currency:       cfg.Checkout.Currency,
		SuccessURL:     cfg.Checkout.SuccessURL,
		SuccessDelay:   cfg.Checkout.SuccessDelay,
		PaymentElement: cfg.Checkout.PaymentElement,
	}, cartService, api, sessions, gateway, attempts, checkout.TimerScheduler{}, recorder, log)

	alerts := notification.NewService(notification.DefaultLifetime)
	sessions.Subscribe(func(ev session.Invalidation) {
		if ev.Reason == session.ReasonExpired {
			alerts.Error(ev.SessionID, "Token expirado!")
		}
	})

	server := httpserver.NewServer(cfg, routes.Dependencies{
		Logger:   log,
		Sessions: sessions,
		Users:    user.NewService(api, sessions, log),
		Admin:    user.NewAdminService(api),
		Products: product.NewService(api),
		Carts:    cartService,
		Checkout: flow,
		Alerts:   alerts,
	}, redisClient, registry)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
