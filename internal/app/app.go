// Package app wires the storefront together and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mayankwalia/MyBasketBackend/internal/cache"
	"github.com/mayankwalia/MyBasketBackend/internal/config"
	"github.com/mayankwalia/MyBasketBackend/internal/event"
	handler "github.com/mayankwalia/MyBasketBackend/internal/handler/http"
	"github.com/mayankwalia/MyBasketBackend/internal/repository/postgres"
	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/internal/worker"
	"github.com/mayankwalia/MyBasketBackend/migrations"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
	"github.com/mayankwalia/MyBasketBackend/pkg/health"
	"github.com/mayankwalia/MyBasketBackend/pkg/httpclient"
	pkgkafka "github.com/mayankwalia/MyBasketBackend/pkg/kafka"
	"github.com/mayankwalia/MyBasketBackend/pkg/logger"
	"github.com/mayankwalia/MyBasketBackend/pkg/tracing"
)

// Run builds the service from configuration and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	l := logger.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			l.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, l)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, l); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	database.RegisterPoolMetrics(pool, cfg.ServiceName)

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	cacheStore := cache.NewStore(redisClient, l)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), l)
	defer func() { _ = kafkaProducer.Close() }()
	events := event.NewProducer(kafkaProducer, l)

	products := postgres.NewProductRepository(pool)
	categories := postgres.NewCategoryRepository(pool)
	cart := postgres.NewCartRepository(pool)
	orders := postgres.NewOrderRepository(pool)
	feedback := postgres.NewFeedbackRepository(pool)
	moderation := postgres.NewModerationRepository(pool)
	users := postgres.NewUserRepository(pool)
	summaries := postgres.NewSummaryRepository(pool)

	catalogSvc := service.NewCatalogService(products, categories, cacheStore, l)
	checkoutSvc := service.NewCheckoutService(orders, products, cacheStore, events, l)
	cartSvc := service.NewCartService(cart, products, l)
	feedbackSvc := service.NewFeedbackService(feedback, products, cacheStore, l)
	moderationSvc := service.NewModerationService(moderation, products, cacheStore, l)
	summarySvc := service.NewSummaryService(summaries, cacheStore, l)
	userSvc := service.NewUserService(users, moderation, cacheStore, l)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", pool.Ping)
	healthHandler.RegisterNonCritical("redis", cacheStore.Ping)
	healthHandler.RegisterNonCritical("kafka", kafkaProducer.Ping)

	router := handler.NewRouter(handler.Handlers{
		Products:   handler.NewProductHandler(catalogSvc, checkoutSvc, l),
		Categories: handler.NewCategoryHandler(catalogSvc, l),
		Cart:       handler.NewCartHandler(cartSvc, l),
		Orders:     handler.NewOrderHandler(checkoutSvc, l),
		Feedback:   handler.NewFeedbackHandler(feedbackSvc, l),
		Moderation: handler.NewModerationHandler(moderationSvc, l),
		Summaries:  handler.NewSummaryHandler(summarySvc, l),
		Users:      handler.NewUserHandler(userSvc, l),
		Health:     healthHandler,
	}, cfg.ServiceName, l)

	var webhook *httpclient.CircuitBreakerClient
	if cfg.ReminderWebhookURL != "" {
		webhook = httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("reminder-webhook"),
			l,
		)
	}
	reminder := worker.NewReminderWorker(users, events, webhook, worker.ReminderConfig{
		Interval:      cfg.ReminderInterval,
		InactiveAfter: cfg.ReminderInactiveAfter,
		NoOrderAfter:  cfg.ReminderNoOrderAfter,
		WebhookURL:    cfg.ReminderWebhookURL,
	}, l)
	go reminder.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("http server listening",
			slog.Int("port", cfg.HTTPPort),
			slog.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	l.Info("shutdown complete")
	return nil
}
