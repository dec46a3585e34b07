package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonly/api/routes"
	"salonly/internal/notifications"
	"salonly/internal/refunds"
	"salonly/internal/shared/config"
	"salonly/internal/shared/database"
	"salonly/pkg/logger"
	"salonly/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			CancelRequests:  cfg.RateLimit.CancelRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		}

		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	appRouter := routes.NewRouter(cfg, db)

	// Refund dispatch pipeline
	var refundProducer refunds.Producer
	if cfg.Kafka.Enabled {
		refundProducer, err = refunds.NewKafkaProducer(refunds.DefaultProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.RefundTopic))
		if err != nil {
			appLogger.Error("Failed to create refund producer, dispatches will wait in the outbox", slog.Any("error", err))
		} else {
			defer refundProducer.Close()
		}
	}

	refundService := refunds.NewService(
		refunds.NewRepository(db.GetPostgreSQL()),
		refundProducer,
		cfg.Cancellation.RefundMaxAttempts,
	)
	appRouter.SetRefundService(refundService)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	refundWorker := refunds.NewWorker(refundService, &refunds.WorkerConfig{
		Interval:  cfg.Cancellation.RefundRetryInterval,
		BatchSize: 50,
	})
	refundWorker.Start(workerCtx)
	defer refundWorker.Stop()

	// Cancellation notices: publisher for the API side, consumer + email for
	// the business side.
	if cfg.Kafka.Enabled {
		noticePublisher, err := notifications.NewKafkaPublisher(
			notifications.DefaultPublisherConfig(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic))
		if err != nil {
			appLogger.Error("Failed to create notice publisher, continuing without notices", slog.Any("error", err))
		} else {
			appRouter.SetNoticePublisher(noticePublisher)
			defer noticePublisher.Close()
		}
	}

	// Setup router (needs refund service and notice publisher already set)
	engine := setupEngine(cfg, rateLimiter, appRouter)

	if cfg.Kafka.Enabled && cfg.Email.SMTPHost != "" {
		sender, err := notifications.NewSMTPEmailSender(&notifications.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  "Salonly",
			Timeout:   30 * time.Second,
		})
		if err != nil {
			appLogger.Error("Invalid SMTP configuration, notices will not be emailed", slog.Any("error", err))
		} else {
			consumer, err := notifications.NewKafkaConsumer(
				notifications.DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.NotificationTopic),
				appRouter.ContactResolver(),
				sender,
			)
			if err != nil {
				appLogger.Error("Failed to create notice consumer", slog.Any("error", err))
			} else {
				if err := consumer.Start(workerCtx); err != nil {
					appLogger.Error("Failed to start notice consumer", slog.Any("error", err))
				}
				defer consumer.Stop()
			}
		}
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("kafka", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, rateLimiter *ratelimit.RateLimiter, appRouter *routes.Router) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
