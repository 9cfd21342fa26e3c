// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/config"
	redisdb "github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/database/redis"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/routes"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/metrics"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	gin        *gin.Engine
	httpServer *http.Server
	deps       routes.Dependencies
	redis      *redisdb.Client
	gatherer   prometheus.Gatherer
	logger     *logrus.Logger
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance. redis may be nil when
// sessions are kept in memory.
func NewServer(cfg *config.Config, deps routes.Dependencies, redis *redisdb.Client, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		config:    cfg,
		deps:      deps,
		redis:     redis,
		gatherer:  gatherer,
		logger:    deps.Logger,
		startedAt: time.Now(),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		s.logger.WithError(err).Warn("Invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the gin engine
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":    s.config.Server.Port,
		"backend": s.config.Backend.BaseURL,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Session(s.config))
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())

	var limiter middleware.Limiter = middleware.NewMemoryLimiter()
	if s.redis != nil {
		limiter = middleware.NewRedisLimiter(s.redis.Redis)
	}
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, limiter, s.logger))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	if s.gatherer != nil {
		s.gin.GET("/metrics", gin.WrapH(metrics.Handler(s.gatherer)))
	}

	routes.SetupRoutes(s.gin, s.deps)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"backend":     s.config.Backend.BaseURL,
				"endpoints": gin.H{
					"login":    "/login",
					"products": "/produtos",
					"cart":     "/carrinho",
					"payment":  "/pagamento",
					"admin":    "/admin",
					"alerts":   "/alerts",
				},
			})
		})
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := s.redis.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "redis ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"uptime":      time.Since(s.startedAt).String(),
	})
}
