package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/cache"
	"github.com/tripdesk/service-booking/internal/config"
	"github.com/tripdesk/service-booking/internal/document"
	bookingDomain "github.com/tripdesk/service-booking/internal/domain/booking"
	bookingEvents "github.com/tripdesk/service-booking/internal/events"
	"github.com/tripdesk/service-booking/internal/handler"
	"github.com/tripdesk/service-booking/internal/notification"
	"github.com/tripdesk/service-booking/internal/platform/auth"
	"github.com/tripdesk/service-booking/internal/platform/database"
	"github.com/tripdesk/service-booking/internal/platform/health"
	"github.com/tripdesk/service-booking/internal/platform/kafka"
	"github.com/tripdesk/service-booking/internal/platform/logger"
	"github.com/tripdesk/service-booking/internal/platform/middleware"
	"github.com/tripdesk/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.Int("admins", len(cfg.AdminEmails)),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.CommentModel{},
			&repository.ItineraryModel{},
			&repository.EntitlementModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Identity
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute)
	roles := auth.NewAllowListRoleProvider(cfg.AdminEmails)
	if roles.Size() == 0 {
		log.Warn("admin allow-list is empty, no caller can act as an agent")
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	itineraryRepo := repository.NewGormItineraryRepository(db)
	entitlementRepo := repository.NewGormEntitlementRepository(db)

	// Optional collaborators
	opts := []application.BookingOption{
		application.WithSubscriptionGate(cfg.RequireSubscription),
		application.WithSummaryRenderer(document.NewSummaryRenderer(cfg.CompanyName)),
	}
	if cfg.StrictTransitions {
		opts = append(opts, application.WithTransitionPolicy(bookingDomain.StrictTransitions()))
	}

	notifier, err := notification.NewTelegramNotifier(cfg.TelegramToken, cfg.AgentChatID, log)
	if err != nil {
		log.Fatal("failed to initialize telegram notifier", zap.Error(err))
	}
	opts = append(opts, application.WithAgentNotifier(notifier))

	if cfg.RedisConfig.Addr != "" {
		statsCache := cache.NewRedisStatsCache(cfg.RedisConfig)
		defer func() { _ = statsCache.Close() }()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := statsCache.Ping(pingCtx); err != nil {
			log.Warn("redis unavailable, booking stats cache disabled", zap.Error(err))
		} else {
			opts = append(opts, application.WithStatsCache(statsCache))
		}
		pingCancel()
	}

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		itineraryRepo,
		entitlementRepo,
		kafkaProducer,
		log,
		opts...,
	)
	commentService := application.NewCommentService(bookingRepo, kafkaProducer, notifier, log)
	itineraryService := application.NewItineraryService(itineraryRepo, log)
	entitlementService := application.NewEntitlementService(entitlementRepo, log)

	log.Info("booking workflow configured",
		zap.String("transition_policy", bookingService.TransitionPolicy().Name()),
		zap.Bool("require_subscription", cfg.RequireSubscription),
		zap.Bool("telegram", notifier.Enabled()),
	)

	// Initialize and start billing event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	billingConsumer := bookingEvents.NewBillingEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		entitlementService,
		log,
	)
	defer func() { _ = billingConsumer.Close() }()

	go func() {
		log.Info("starting billing event consumer")
		if err := billingConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("billing event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	api := &router.RouterGroup
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager, roles)
	handler.NewCommentHandler(commentService).RegisterRoutes(api, jwtManager, roles)
	handler.NewItineraryHandler(itineraryService).RegisterRoutes(api, jwtManager, roles)
	handler.NewMeHandler(entitlementService).RegisterRoutes(api, jwtManager, roles)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(api, jwtManager, roles)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
