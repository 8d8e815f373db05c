package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/feishu-order-notify/internal/config"
	"github.com/kursadbilgin/feishu-order-notify/internal/handler"
	"github.com/kursadbilgin/feishu-order-notify/internal/infra/postgresql"
	"github.com/kursadbilgin/feishu-order-notify/internal/infra/postgresql/migrations"
	infraredis "github.com/kursadbilgin/feishu-order-notify/internal/infra/redis"
	"github.com/kursadbilgin/feishu-order-notify/internal/observability"
	"github.com/kursadbilgin/feishu-order-notify/internal/provider"
	"github.com/kursadbilgin/feishu-order-notify/internal/queue"
	"github.com/kursadbilgin/feishu-order-notify/internal/repository"
	"github.com/kursadbilgin/feishu-order-notify/internal/service"
	"github.com/kursadbilgin/feishu-order-notify/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("feishu-order-notify stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("postgres initialization failed: %w", err)
	}
	if err := migrations.Migrate(db); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres underlying db init failed: %w", err)
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis initialization failed: %w", err)
	}
	defer rdb.Close()

	activity, err := infraredis.NewActivityStore(rdb, cfg.ActivityLogLimit, time.Duration(cfg.ActivityLogTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	feishu, err := provider.NewFeishuProvider(cfg.FeishuWebhookBaseURL, time.Duration(cfg.WebhookTimeoutSec)*time.Second)
	if err != nil {
		return fmt.Errorf("feishu provider initialization failed: %w", err)
	}

	metrics := observability.NewMetrics()

	settingsService, err := service.NewSettingsService(repository.NewGormSettingsRepo(db), activity, feishu.BaseURL(), logger)
	if err != nil {
		return err
	}
	dispatchService, err := service.NewDispatchService(feishu, activity, location, logger)
	if err != nil {
		return err
	}
	dispatchService.SetMetrics(metrics)
	eventService, err := service.NewOrderEventService(settingsService, dispatchService, logger)
	if err != nil {
		return err
	}
	eventService.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		AppName:               "feishu-order-notify",
		DisableStartupMessage: true,
		ErrorHandler:          transport.ErrorHandler(logger),
	})
	app.Use(transport.RequestID())
	app.Use(metrics.HTTPMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handler.RegisterHealthRoutes(app, handler.PostgresCheck(sqlDB), handler.RedisCheck(rdb))
	if err := handler.RegisterSettingsRoutes(app, settingsService, dispatchService); err != nil {
		return err
	}
	if err := handler.RegisterEventRoutes(app, eventService); err != nil {
		return err
	}

	var consumer *queue.RabbitMQConsumer
	if cfg.RabbitMQURL != "" {
		broker, err := queue.NewRabbitMQ(ctx, cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("rabbitmq initialization failed: %w", err)
		}
		consumer = queue.NewRabbitMQConsumer(broker, 1, logger)
		defer consumer.Close() //nolint:errcheck
	} else {
		logger.Info("RABBITMQ_URL not set, order events accepted over HTTP only")
	}

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("feishu-order-notify api started", zap.Int("port", cfg.APIPort))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return app.ShutdownWithContext(shutdownCtx)
	})

	if consumer != nil {
		g.Go(func() error {
			return consumer.Consume(groupCtx, queue.OrderEventsQueue, queue.ListenerHandler(eventService))
		})
	}

	return g.Wait()
}
