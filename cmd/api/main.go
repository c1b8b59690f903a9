package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iti-tech/taskboard-api/docs"
	"github.com/iti-tech/taskboard-api/internal/ai"
	"github.com/iti-tech/taskboard-api/internal/auth"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/chat"
	"github.com/iti-tech/taskboard-api/internal/config"
	"github.com/iti-tech/taskboard-api/internal/database"
	"github.com/iti-tech/taskboard-api/internal/http/handler"
	"github.com/iti-tech/taskboard-api/internal/http/middleware"
	"github.com/iti-tech/taskboard-api/internal/http/router"
	"github.com/iti-tech/taskboard-api/internal/jobs"
	"github.com/iti-tech/taskboard-api/internal/logger"
	"github.com/iti-tech/taskboard-api/internal/realtime"
	"github.com/iti-tech/taskboard-api/internal/storage"
	"github.com/iti-tech/taskboard-api/internal/store"
	"go.uber.org/zap"
)

// @title ITI Tech Taskboard API
// @version 1.0
// @description Team task tracking dashboard with an AI assistant

// @contact.name API Support
// @contact.email suporte@ititech.com.br

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Persistence and cache
	sqlStore := store.NewSQLStore(db)
	cacheService := cache.NewService(sqlStore, cfg.Jobs.ActivityLogKeep, log)
	if err := cacheService.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	log.Info("Cache initialized", zap.Bool("degraded", cacheService.Degraded()))

	// Change feed keeps every running instance converged on store state
	feed, err := realtime.NewPostgresFeed(cfg.Database.ConnectionString(), log)
	if err != nil {
		return fmt.Errorf("failed to open change feed: %w", err)
	}
	defer feed.Close()
	go cacheService.Run(ctx, feed)

	// Chat turn coordinator
	completionClient := ai.NewGeminiClient(cfg.AI)
	coordinator := chat.NewCoordinator(sqlStore, cacheService, completionClient, cfg.Chat.StrictClaim, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, sqlStore, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	taskHandler := handler.NewTaskHandler(cacheService, log)
	boardHandler := handler.NewBoardHandler(cacheService, log)
	sectorHandler := handler.NewSectorHandler(cacheService, log)
	projectHandler := handler.NewProjectHandler(cacheService, log)
	userHandler := handler.NewUserHandler(cacheService, log)
	chatHandler := handler.NewChatHandler(cacheService, coordinator, log)
	settingsHandler := handler.NewSettingsHandler(cacheService, fileStorage, &cfg.Storage, log)
	reportHandler := handler.NewReportHandler(cacheService, log)
	activityHandler := handler.NewActivityHandler(cacheService, log)
	dashboardHandler := handler.NewDashboardHandler(cacheService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		cacheService,
		authMiddleware,
		rateLimiter,
		taskHandler,
		boardHandler,
		sectorHandler,
		projectHandler,
		userHandler,
		chatHandler,
		settingsHandler,
		reportHandler,
		activityHandler,
		dashboardHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.RetentionEnabled {
		scheduler = jobs.NewScheduler(log)
		retentionJob := jobs.NewRetentionJob(sqlStore, cfg.Jobs.ActivityLogKeep, log)
		if err := scheduler.AddJob(jobs.RetentionJobName, cfg.Jobs.RetentionCron, retentionJob.Run); err != nil {
			log.Error("Failed to register retention job", zap.Error(err))
		} else {
			scheduler.Start()
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			stopCtx := scheduler.Stop()
			<-stopCtx.Done()
			log.Info("Scheduler stopped")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
