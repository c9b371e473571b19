package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/attendance-service/internal/config"
	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/handlers"
	"github.com/SAP-F-2025/attendance-service/internal/mailer"
	"github.com/SAP-F-2025/attendance-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
	"github.com/SAP-F-2025/attendance-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database (runs migrations)
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	// Initialize validator
	v := validator.New()

	// Event publisher: Kafka when brokers are configured, no-op otherwise
	var publisher events.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize event publisher: %v", err)
		}
	} else {
		publisher = events.NewNoopEventPublisher()
		logger.Warn("no Kafka brokers configured, notification events will be dropped")
	}

	// Mailer: SendGrid when a key is present, console fallback otherwise
	var mail mailer.Mailer
	if cfg.Mail.APIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.Mail, slogLogger)
	} else {
		mail = mailer.NewConsoleMailer(slogLogger)
		logger.Warn("no SendGrid API key configured, alert emails will be logged only")
	}

	policy := services.AttendancePolicy{
		LateWeight:   cfg.Alert.LateWeight,
		Threshold:    cfg.Alert.Threshold,
		CooldownDays: cfg.Alert.CooldownDays,
	}

	// Initialize services
	serviceManager := services.NewServiceManager(repo, v, publisher, mail, policy, logger)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger, cfg.Casdoor, repo.User())

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Service shutdown failed", "error", err)
	}

	logger.Info("Server exited")
}
