package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/feedback-service/internal/api/http"
	"github.com/spec-kit/feedback-service/internal/api/http/handlers"
	"github.com/spec-kit/feedback-service/internal/auth"
	"github.com/spec-kit/feedback-service/internal/config"
	"github.com/spec-kit/feedback-service/internal/directory"
	"github.com/spec-kit/feedback-service/internal/email"
	"github.com/spec-kit/feedback-service/internal/notify"
	"github.com/spec-kit/feedback-service/internal/observability"
	"github.com/spec-kit/feedback-service/internal/persistence"
	"github.com/spec-kit/feedback-service/internal/repository"
	"github.com/spec-kit/feedback-service/internal/service"
	"github.com/spec-kit/feedback-service/pkg/clock"
	"github.com/spec-kit/feedback-service/pkg/ids"
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

	clk := clock.System()
	gen := ids.NewGenerator()

	var store notify.Store
	var redis *persistence.Redis
	if cfg.Redis.Addr != "" {
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		store = notify.NewRedisStore(redis.Client, cfg.Notification.RetentionCap, clk)
	} else {
		logger.Warn("REDIS_ADDR not provided; using in-memory notification store")
		store = notify.NewMemoryStore(cfg.Notification.RetentionCap, clk)
	}

	sender := email.NewSMTPSender(cfg.Email)
	if !sender.Enabled() {
		logger.Warn("SMTP not configured; notification emails disabled")
	}
	dispatcher := notify.NewDispatcher(store, sender, gen, clk, logger, cfg.Notification.TTLDays)

	pool := pg.PoolHandle()
	feedbackService := service.NewFeedbackService(service.FeedbackDependencies{
		ThreadRepo:  repository.NewThreadRepository(pool),
		MessageRepo: repository.NewMessageRepository(pool),
		Notifier:    dispatcher,
		Directory:   directory.NewPgDirectory(pool),
		Tx:          pg,
		IDs:         gen,
		Clock:       clk,
		Logger:      logger,
	})

	authMiddleware := auth.NewAuthMiddleware(auth.NewTokenVerifier(cfg.Auth.JWTSecret))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Feedback:       handlers.NewFeedbackHandler(feedbackService),
		StaffFeedback:  handlers.NewStaffFeedbackHandler(feedbackService),
		Notifications:  handlers.NewNotificationsHandler(store),
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
