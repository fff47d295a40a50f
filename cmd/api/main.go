package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-kit/helpdesk-service/internal/api/http"
	"github.com/campus-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/campus-kit/helpdesk-service/internal/auth"
	"github.com/campus-kit/helpdesk-service/internal/config"
	"github.com/campus-kit/helpdesk-service/internal/events"
	"github.com/campus-kit/helpdesk-service/internal/observability"
	"github.com/campus-kit/helpdesk-service/internal/persistence"
	"github.com/campus-kit/helpdesk-service/internal/repository"
	"github.com/campus-kit/helpdesk-service/internal/service"
	"github.com/campus-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := repository.NewStore(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	lifecycle := service.NewLifecycleService(cfg.Lifecycle, service.LifecycleDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	stats := service.NewStatsService(store)
	notifications := service.NewNotificationService(dispatcher, redis, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications)

	tokens := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewAuthMiddleware(tokens, store.Repos().Employees)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	readiness := map[string]handlers.Pinger{"redis": redis}
	if pool := pg.PoolHandle(); pool != nil {
		readiness["postgres"] = pool
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(readiness, metrics),
		Tickets:        handlers.NewTicketsHandler(lifecycle),
		StaffTickets:   handlers.NewStaffTicketsHandler(lifecycle),
		Stats:          handlers.NewStatsHandler(stats),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
