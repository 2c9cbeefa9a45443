package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/cache"
	"github.com/fjod/go_cart/fitstore/internal/catalog"
	"github.com/fjod/go_cart/fitstore/internal/checkout"
	"github.com/fjod/go_cart/fitstore/internal/config"
	"github.com/fjod/go_cart/fitstore/internal/health"
	h "github.com/fjod/go_cart/fitstore/internal/http"
	"github.com/fjod/go_cart/fitstore/internal/orders"
	"github.com/fjod/go_cart/fitstore/internal/payment"
	"github.com/fjod/go_cart/fitstore/internal/session"
	"github.com/fjod/go_cart/fitstore/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load(".env")

	log, err := logger.New(cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog
	repo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatal("failed to open catalog", zap.Error(err))
	}
	defer repo.Close()
	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal("failed to migrate catalog", zap.Error(err))
	}

	checks := map[string]health.Check{"catalog": repo.Ping}

	var productCache cache.ProductCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		log.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		productCache = cache.NewRedisCache(redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	catalogService := catalog.NewService(repo, productCache, log)

	// Orders
	var publisher orders.Publisher = orders.NewLogPublisher(log)
	if len(cfg.KafkaBrokers) > 0 {
		publisher = orders.NewKafkaPublisher(cfg.OrdersTopic, cfg.KafkaBrokers...)
		log.Info("publishing orders to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.OrdersTopic))
	}
	defer publisher.Close()

	var status payment.StatusSource = payment.AlwaysApprove{}
	if cfg.PaymentDeclines {
		status = payment.RandomStatus{}
	}
	gateway := payment.NewBreakerGateway(
		payment.NewGateway(cfg.PaymentLatency, status),
		payment.DefaultBreakerSettings(),
		log,
	)
	submitter := orders.NewSubmitter(gateway, publisher, log)

	// Sessions
	registry := session.NewRegistry([]byte(cfg.SessionSecret), cfg.SessionTTL, submitter,
		session.WithLogger(log),
		session.WithFlowOptions(checkout.WithRetryPolicy(checkout.RetryPolicy{
			MaxAttempts:    cfg.SubmitMaxAttempts,
			Backoff:        cfg.SubmitBackoff,
			AttemptTimeout: cfg.SubmitTimeout,
		})),
	)
	defer registry.Close()

	// gRPC health
	healthServer := health.NewServer(log, cfg.Env != "production")
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal("failed to listen", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	go func() {
		log.Info("health server listening", zap.String("port", cfg.GRPCPort))
		if err := healthServer.Serve(lis); err != nil {
			log.Error("health server stopped", zap.Error(err))
		}
	}()
	go healthServer.Monitor(ctx, 15*time.Second, "fitstore", checks)

	// HTTP
	handler := h.NewHandler(registry, catalogService, cfg.RequestTimeout)
	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: h.NewRouter(handler, h.RouterConfig{
			RequestTimeout:     cfg.RequestTimeout,
			MaxRequestBodySize: cfg.MaxRequestBodySize,
			Logger:             log,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("fitstore starting", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	healthServer.Stop()

	log.Info("server exited")
}
