// Package http wires the API router, its middleware and the HTTP servers.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/allisson/cardauth/internal/audit/http"
	authHTTP "github.com/allisson/cardauth/internal/auth/http"
	authUseCase "github.com/allisson/cardauth/internal/auth/usecase"
	authorizationHTTP "github.com/allisson/cardauth/internal/authorization/http"
	"github.com/allisson/cardauth/internal/config"
	gateHTTP "github.com/allisson/cardauth/internal/gate/http"
	gateUseCase "github.com/allisson/cardauth/internal/gate/usecase"
	"github.com/allisson/cardauth/internal/metrics"
)

// readinessTimeout bounds the database ping behind /ready.
const readinessTimeout = 2 * time.Second

// Server is the API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a Server. Call SetupRouter before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDependencies are the handlers and use cases the router mounts.
type RouterDependencies struct {
	TokenHandler         *authHTTP.TokenHandler
	AuthorizationHandler *authorizationHTTP.AuthorizationHandler
	GateHandler          *gateHTTP.GateHandler
	AccessLogHandler     *auditHTTP.AccessLogHandler
	TokenUseCase         authUseCase.TokenUseCase
	GateUseCase          gateUseCase.GateUseCase
	MetricsProvider      *metrics.Provider
}

// SetupRouter builds the route tree:
//
//	GET  /health, /ready
//	POST /v1/auth/token                          public, rate limited
//	POST /v1/authorizations                      public, rate limited
//	GET  /v1/admin/gate/session                  admin
//	POST /v1/admin/gate/verify                   admin
//	POST /v1/admin/authorizations/decrypt        admin
//	GET  /v1/admin/authorizations[/:id]          admin, unlocked gate
//	GET  /v1/admin/audit-logs                    admin, unlocked gate
//
// ctx bounds background work started by middleware.
func (s *Server) SetupRouter(ctx context.Context, cfg *config.Config, deps RouterDependencies) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		public := v1.Group("")
		if cfg.RateLimitEnabled {
			public.Use(authHTTP.IPRateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
		}
		public.POST("/auth/token", deps.TokenHandler.LoginHandler)
		public.POST("/authorizations", deps.AuthorizationHandler.SubmitHandler)

		admin := v1.Group("/admin")
		admin.Use(authHTTP.AuthenticationMiddleware(deps.TokenUseCase, s.logger))
		admin.Use(authHTTP.AdminMiddleware(s.logger))
		{
			admin.GET("/gate/session", deps.GateHandler.SessionHandler)
			admin.POST("/gate/verify", deps.GateHandler.VerifyHandler)
			admin.POST("/authorizations/decrypt", deps.AuthorizationHandler.DecryptHandler)

			gated := admin.Group("")
			gated.Use(gateHTTP.GateMiddleware(deps.GateUseCase, s.logger))
			{
				gated.GET("/authorizations", deps.AuthorizationHandler.ListHandler)
				gated.GET("/authorizations/:id", deps.AuthorizationHandler.GetHandler)
				gated.GET("/audit-logs", deps.AccessLogHandler.ListHandler)
			}
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports 503 until the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}
