package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/config"
	"github.com/eventease/campus-backend/database"
	"github.com/eventease/campus-backend/internal/assistant"
	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/auth"
	"github.com/eventease/campus-backend/internal/calendar"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/internal/monitoring"
	"github.com/eventease/campus-backend/internal/notification"
	"github.com/eventease/campus-backend/internal/reports"
	"github.com/eventease/campus-backend/internal/volunteer"
	"github.com/eventease/campus-backend/middleware"
	"github.com/eventease/campus-backend/routes"
	"github.com/eventease/campus-backend/utils"
)

// @title EventEase Campus API
// @version 1.0
// @description Campus event discovery, RSVP, volunteer coordination and reporting.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx := logger.WithContext(context.Background())
	startupLogger := logger.With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := logger.With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	if cfg.InsecureJWTSecret() {
		startupLogger.Warn().Msg("⚠️ JWT_ACCESS_SECRET is unset in release mode, tokens are signed with the development secret")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// ========== Infrastructure ==========
	auditRepo := auditlog.NewMemoryRepository()
	if cfg.DatabaseEnabled() {
		db, err := database.Connect(cfg, startupLogger)
		if err != nil {
			startupLogger.Fatal().Err(err).Msg("❌ database init failed")
		}
		auditRepo = auditlog.NewRepository(db)
	} else {
		startupLogger.Warn().Msg("⚠️ DB_HOST not set, audit logs kept in memory")
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		client, err := utils.NewRedisClient(ctx, cfg)
		if err != nil {
			startupLogger.Warn().Err(err).Msg("⚠️ continuing without Redis")
		} else {
			redisClient = client
			defer redisClient.Close()
			startupLogger.Info().Str("addr", cfg.RedisAddr).Msg("✅ Redis connected")
		}
	}

	monitor := monitoring.NewMonitor()
	monitor.Start(ctx)

	// ========== Domain ==========
	auditSvc := auditlog.NewService(auditRepo, logger)

	userRepo := auth.NewMemoryRepository()
	authSvc := auth.NewService(userRepo, auditSvc, cfg, logger)

	var seed []event.Event
	if cfg.SeedEvents {
		seed = event.SeedEvents()
	}
	registry := event.NewRegistry(seed, event.WithCapacityEnforcement(cfg.EnforceCapacity))

	loc := cfg.Location()
	assistantSvc := assistant.NewService(nil, monitor, logger)
	eventSvc := event.NewService(registry, auditSvc, assistantSvc, monitor, loc, logger)
	calendarSvc := calendar.NewService(registry, calendar.NewGoogleSyncer(), auditSvc, loc, logger)

	notificationSvc := notification.NewService(notification.NewMemoryRepository(), userRepo, notificationOptions(ctx, cfg, redisClient, monitor, startupLogger), logger)
	volunteerSvc := volunteer.NewService(volunteer.NewMemoryRepository(volunteer.SeedRoles()), registry, notificationSvc, auditSvc, monitor, logger)
	reportSvc := reports.NewReportService(registry, userRepo, reports.NewReportExporter(), auditSvc, loc, logger)

	// ========== Event fan-out ==========
	var bridge *notification.Bridge
	if cfg.KafkaEnabled() {
		writer := utils.NewKafkaWriter(cfg)
		defer writer.Close()
		reader := utils.NewKafkaReader(cfg)
		defer reader.Close()

		bridge = notification.NewBridge(notificationSvc, writer, logger)
		go func() {
			if err := bridge.Consume(ctx, reader); err != nil {
				shutdownLogger.Error().Err(err).Msg("kafka consumer stopped")
			}
		}()
		startupLogger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("✅ Kafka bridge running")
	} else {
		bridge = notification.NewBridge(notificationSvc, nil, logger)
		startupLogger.Warn().Msg("⚠️ KAFKA_BROKERS not set, dispatching notifications in-process")
	}
	detach := bridge.Attach(registry)
	defer detach()

	// ========== HTTP ==========
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, routes.Services{
		Auth:         authSvc,
		Audit:        auditSvc,
		Events:       eventSvc,
		Assistant:    assistantSvc,
		Calendar:     calendarSvc,
		Volunteers:   volunteerSvc,
		Notification: notificationSvc,
		Reports:      reportSvc,
		Redis:        redisClient,
	})

	srv := newServer(ctx, ":"+cfg.Port, router)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	startupLogger.Info().Str("port", cfg.Port).Msg("🚀 application running")

	select {
	case <-ctx.Done():
		shutdownLogger.Info().Msg("application shutdown requested")
	case err := <-errChan:
		shutdownLogger.Error().Err(err).Msg("runtime error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		shutdownLogger.Error().Err(err).Msg("http server shutdown failed")
	}
}

// newServer ties request contexts to ctx so long-lived streams end as soon as
// shutdown starts instead of holding Shutdown until its timeout.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

// notificationOptions wires whichever delivery backends are configured.
func notificationOptions(ctx context.Context, cfg *config.Config, redisClient *redis.Client, monitor *monitoring.Monitor, logger zerolog.Logger) notification.Options {
	opts := notification.Options{Monitor: monitor}

	if redisClient != nil {
		opts.Stream = notification.NewRedisStream(redisClient)
	}

	if cfg.FCMCredentialsPath != "" {
		client, err := utils.NewMessagingClient(ctx, cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ continuing without push notifications")
		} else {
			opts.Push = notification.NewFCMChannel(client, logger)
		}
	}

	if cfg.SMTPEnabled() {
		opts.Email = notification.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFromName, cfg.SMTPFromEmail, logger)
	} else {
		logger.Warn().Msg("⚠️ SMTP_HOST not set, email notifications disabled")
	}
	return opts
}
