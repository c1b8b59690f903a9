package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iti-tech/taskboard-api/internal/auth"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/config"
	"github.com/iti-tech/taskboard-api/internal/database"
	"github.com/iti-tech/taskboard-api/internal/http/handler"
	"github.com/iti-tech/taskboard-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/iti-tech/taskboard-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	cache            *cache.Service
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	taskHandler      *handler.TaskHandler
	boardHandler     *handler.BoardHandler
	sectorHandler    *handler.SectorHandler
	projectHandler   *handler.ProjectHandler
	userHandler      *handler.UserHandler
	chatHandler      *handler.ChatHandler
	settingsHandler  *handler.SettingsHandler
	reportHandler    *handler.ReportHandler
	activityHandler  *handler.ActivityHandler
	dashboardHandler *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	cacheService *cache.Service,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	taskHandler *handler.TaskHandler,
	boardHandler *handler.BoardHandler,
	sectorHandler *handler.SectorHandler,
	projectHandler *handler.ProjectHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	settingsHandler *handler.SettingsHandler,
	reportHandler *handler.ReportHandler,
	activityHandler *handler.ActivityHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		cache:            cacheService,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		taskHandler:      taskHandler,
		boardHandler:     boardHandler,
		sectorHandler:    sectorHandler,
		projectHandler:   projectHandler,
		userHandler:      userHandler,
		chatHandler:      chatHandler,
		settingsHandler:  settingsHandler,
		reportHandler:    reportHandler,
		activityHandler:  activityHandler,
		dashboardHandler: dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness: database reachable, cache initialized and not degraded
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if _, err := database.HealthCheckWithStats(rt.db); err != nil {
			checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		cacheStatus := "healthy"
		switch {
		case !rt.cache.Ready():
			cacheStatus = "initializing"
			allHealthy = false
		case rt.cache.Degraded():
			cacheStatus = "degraded"
		}
		checks["cache"] = map[string]interface{}{"status": cacheStatus}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Branding assets are public so login pages can render them
		r.Get("/assets/{name}", rt.settingsHandler.ServeAsset)

		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/users/me", rt.userHandler.Me)
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.ListUsers)
				r.Post("/", rt.userHandler.CreateUser)
				r.Put("/{id}", rt.userHandler.UpdateUser)
				r.Delete("/{id}", rt.userHandler.DeleteUser)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", rt.taskHandler.ListTasks)
				r.Post("/", rt.taskHandler.CreateTask)
				r.Get("/hours", rt.taskHandler.TotalHours)
				r.Put("/{id}", rt.taskHandler.UpdateTask)
				r.Delete("/{id}", rt.taskHandler.DeleteTask)
				r.Post("/{id}/toggle", rt.taskHandler.ToggleTaskCompletion)
			})

			r.Route("/board-tasks", func(r chi.Router) {
				r.Get("/", rt.boardHandler.ListBoardTasks)
				r.Post("/", rt.boardHandler.CreateBoardTask)
				r.Put("/{id}", rt.boardHandler.UpdateBoardTask)
				r.Delete("/{id}", rt.boardHandler.DeleteBoardTask)
			})

			r.Route("/sectors", func(r chi.Router) {
				r.Get("/", rt.sectorHandler.ListSectors)
				r.Post("/", rt.sectorHandler.CreateSector)
				r.Put("/{id}", rt.sectorHandler.UpdateSector)
				r.Delete("/{id}", rt.sectorHandler.DeleteSector)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.ListProjects)
				r.Post("/", rt.projectHandler.CreateProject)
				r.Put("/{id}", rt.projectHandler.UpdateProject)
				r.Delete("/{id}", rt.projectHandler.DeleteProject)
			})

			r.Route("/chat", func(r chi.Router) {
				r.Get("/messages", rt.chatHandler.ListMessages)
				r.Post("/messages", rt.chatHandler.SendMessage)
				r.Get("/lock", rt.chatHandler.GetLock)
				r.With(rt.authMiddleware.RequireAdmin).Post("/lock/reset", rt.chatHandler.ResetLock)
			})

			r.Get("/settings", rt.settingsHandler.GetSettings)
			r.With(rt.authMiddleware.RequireAdmin).Post("/settings/logo", rt.settingsHandler.UploadLogo)
			r.With(rt.authMiddleware.RequireAdmin).Post("/settings/favicon", rt.settingsHandler.UploadFavicon)

			r.Get("/reports/tasks", rt.reportHandler.ExportTasks)
			r.Get("/activity", rt.activityHandler.ListActivityLogs)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/snapshot", rt.dashboardHandler.GetSnapshot)
				r.Get("/stats", rt.dashboardHandler.GetStats)
			})
		})
	})

	return r
}
