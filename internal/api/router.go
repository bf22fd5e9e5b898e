// Package api wires together all HTTP routes for the secure storage backend.
//
// Route grouping philosophy:
//   - /health, /ready, and /version are public so that probes and load
//     balancers need no credentials.
//   - /api/v1/auth/register and /login are public but sit behind a stricter
//     rate limit bucket than the rest of the API.
//   - Everything else under /api/v1/ requires authentication (JWT or API
//     key); /api/v1/admin/ additionally requires the admin role.
package api

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/SumitKasaudhan/secure-storage-backend/internal/api/activity"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/api/admin"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/api/apikeys"
	authapi "github.com/SumitKasaudhan/secure-storage-backend/internal/api/auth"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/api/files"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/config"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/db/repositories"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/jobs"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/middleware"
	"github.com/SumitKasaudhan/secure-storage-backend/internal/vault"
)

// BackgroundServices holds references to background goroutines that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible
// for calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	integritySweep *jobs.IntegritySweepJob
	rateLimiters   []*middleware.RateLimiter
}

// Shutdown stops all background goroutines. It should be called after the
// HTTP server has been shut down so that in-flight requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	if bg.integritySweep != nil {
		bg.integritySweep.Stop()
	}
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	apiKeyRepo := repositories.NewAPIKeyRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	// Wrap *sql.DB with sqlx for the file repository
	sqlxDB := sqlx.NewDb(db, "postgres")
	fileRepo := repositories.NewFileRepository(sqlxDB)

	vaultService := vault.NewService(fileRepo, activityRepo, vault.NoopSanitizer{})

	// Initialize handlers
	authHandlers := authapi.NewHandlers(cfg, userRepo)
	fileHandlers := files.NewHandlers(vaultService, cfg.Upload.MaxFileSizeBytes())
	apiKeyHandlers := apikeys.NewHandlers(apiKeyRepo)
	activityHandlers := activity.NewHandlers(activityRepo)
	adminFileHandlers := admin.NewFileHandlers(fileRepo)
	adminActivityHandlers := admin.NewActivityHandlers(activityRepo)

	// Start the periodic integrity sweep over stored envelopes
	var sweepJob *jobs.IntegritySweepJob
	if cfg.Jobs.IntegritySweep.Enabled {
		sweepJob = jobs.NewIntegritySweepJob(fileRepo, cfg.Jobs.IntegritySweep.Interval)
		sweepJob.Start(context.Background())
		slog.Info("integrity sweep job started", "interval", cfg.Jobs.IntegritySweep.Interval)
	}

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Readiness check endpoint
	router.GET("/ready", readinessHandler(db))

	// API version
	router.GET("/version", versionHandler())

	// Initialize rate limiters
	authRateLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
	generalRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
	uploadRateLimiter := middleware.NewRateLimiter(middleware.UploadRateLimitConfig())

	apiV1 := router.Group("/api/v1")
	{
		// Public authentication endpoints (no auth required, stricter rate limit)
		authGroup := apiV1.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware(authRateLimiter))
		{
			authGroup.POST("/register", authHandlers.RegisterHandler())
			authGroup.POST("/login", authHandlers.LoginHandler())
		}

		// Authenticated-only endpoints
		authenticatedGroup := apiV1.Group("")
		authenticatedGroup.Use(middleware.AuthMiddleware(userRepo, apiKeyRepo))
		authenticatedGroup.Use(middleware.RateLimitMiddleware(generalRateLimiter))
		{
			authenticatedGroup.GET("/auth/me", authHandlers.MeHandler())

			// File vault endpoints
			filesGroup := authenticatedGroup.Group("/files")
			{
				filesGroup.POST("/upload",
					middleware.RateLimitMiddleware(uploadRateLimiter), // Stricter rate limit for uploads
					fileHandlers.UploadHandler())
				filesGroup.GET("", fileHandlers.ListHandler())
				filesGroup.GET("/:id/download", fileHandlers.DownloadHandler())
				filesGroup.PUT("/:id/rename", fileHandlers.RenameHandler())
				filesGroup.POST("/:id/clean", fileHandlers.CleanHandler())
				filesGroup.POST("/shred", fileHandlers.ShredHandler())
				filesGroup.DELETE("/:id", fileHandlers.DeleteHandler())
			}

			// API key self-service
			apiKeysGroup := authenticatedGroup.Group("/apikeys")
			{
				apiKeysGroup.POST("", apiKeyHandlers.CreateHandler())
				apiKeysGroup.GET("", apiKeyHandlers.ListHandler())
				apiKeysGroup.DELETE("/:id", apiKeyHandlers.RevokeHandler())
			}

			// Own activity feed
			authenticatedGroup.GET("/activity", activityHandlers.ListHandler())

			// Admin endpoints (admin role required)
			adminGroup := authenticatedGroup.Group("/admin")
			adminGroup.Use(middleware.RequireAdmin())
			{
				adminGroup.GET("/files", adminFileHandlers.ListFilesHandler())
				adminGroup.GET("/activity", adminActivityHandlers.ListActivityHandler())
			}
		}
	}

	bg := &BackgroundServices{
		integritySweep: sweepJob,
		rateLimiters:   []*middleware.RateLimiter{authRateLimiter, generalRateLimiter, uploadRateLimiter},
	}

	return router, bg
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic. Checks database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: database not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service. The database
// is the only external dependency; file content lives in the same database as
// the metadata, so there is no separate storage probe.
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		// Log the request
		if cfg.Logging.Format == "json" {
			logJSON(c, latency, path, query)
		} else {
			logText(c, latency, path, query)
		}
	}
}

// logJSON logs a request as a JSON-structured slog record.
func logJSON(c *gin.Context, latency time.Duration, path, query string) {
	requestID, _ := c.Get(middleware.RequestIDKey)
	slog.LogAttrs(
		c.Request.Context(),
		slog.LevelInfo,
		"http request",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("query", query),
		slog.Int("status", c.Writer.Status()),
		slog.Int("size", c.Writer.Size()),
		slog.Duration("latency", latency),
		slog.String("ip", c.ClientIP()),
		slog.String("request_id", fmt.Sprintf("%v", requestID)),
		slog.String("user_agent", c.Request.UserAgent()),
	)
}

// logText logs a request as a human-readable slog text record.
func logText(c *gin.Context, latency time.Duration, path, query string) {
	// reuse the same structured output; slog will emit text format when the global
	// handler is a TextHandler (configured in telemetry.SetupLogger).
	logJSON(c, latency, path, query)
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
