package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/necroledger/necroledger-api/docs" // Swagger docs
	"github.com/necroledger/necroledger-api/internal/config"
	"github.com/necroledger/necroledger-api/internal/database"
	"github.com/necroledger/necroledger-api/internal/handlers"
	"github.com/necroledger/necroledger-api/internal/jobs"
	"github.com/necroledger/necroledger-api/internal/middleware"
	"github.com/necroledger/necroledger-api/internal/repository"
	"github.com/necroledger/necroledger-api/internal/services"
	"github.com/necroledger/necroledger-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title NecroLedger API
// @version 1.0
// @description REST API for double-entry journal management

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	// Optional collaborators are decided here, once
	sentryEnabled := initSentry(cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database", "driver", cfg.DatabaseDriver)

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)

	var worker *jobs.Worker
	if cfg.WorkerCount > 0 {
		worker = jobs.NewWorker(cfg.WorkerCount)
		logger.Info("Started background worker", "goroutines", cfg.WorkerCount)
	} else {
		logger.Warn("Background worker disabled: WORKER_COUNT is 0")
	}

	svcs := services.NewServices(repos, worker, cfg)

	report, err := svcs.Setup.EnsureDefaults(context.Background())
	if err != nil {
		logger.Error("Failed to seed defaults", "error", err)
		os.Exit(1)
	}
	logger.Info("Defaults ready", "admin_created", report.AdminCreated, "accounts_created", len(report.AccountsCreated))

	if svcs.Job.ScheduleIntegrityCheck(cfg.IntegrityCheckInterval) {
		logger.Info("Scheduled integrity check", "interval", cfg.IntegrityCheckInterval)
	}

	h := handlers.NewHandlers(svcs)
	router := setupRouter(h, cfg, sentryEnabled)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if worker != nil {
		worker.Shutdown()
		logger.Info("Background worker stopped")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if sentryEnabled {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func initSentry(cfg *config.Config) bool {
	if cfg.SentryDSN == "" {
		logger.Info("Sentry disabled: SENTRY_DSN not set")
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		TracesSampleRate: 0.2,
		Environment:      cfg.Environment,
	}); err != nil {
		logger.Error("Sentry initialization failed", "error", err)
		return false
	}
	logger.Info("Sentry initialized")
	return true
}

func setupRouter(h *handlers.Handlers, cfg *config.Config, sentryEnabled bool) *gin.Engine {
	router := gin.New()

	if sentryEnabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h.RegisterRoutes(router.Group("/api/v1"), cfg.JWTSecret)

	return router
}
