package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devyanshnandeshwar/ghostly-app/internal/config"
	"github.com/devyanshnandeshwar/ghostly-app/internal/detector"
	"github.com/devyanshnandeshwar/ghostly-app/internal/health"
	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
	"github.com/devyanshnandeshwar/ghostly-app/internal/service"
)

// Predictor runs gender verification on an encoded image
type Predictor interface {
	Predict(image []byte) detector.Result
	Ready() bool
}

// HealthReporter produces the aggregated health report
type HealthReporter interface {
	Check(ctx context.Context) health.HealthReport
}

// Server is the HTTP API service
type Server struct {
	*service.ServiceBase
	config      *config.ServerConfig
	serviceInfo config.ServiceConfig
	logger      *logger.Logger
	router      *gin.Engine
	predictor   Predictor
	health      HealthReporter
	limiter     *clientLimiter
	version     string

	mu         sync.Mutex
	httpServer *http.Server
	addr       string
}

// NewServer creates the HTTP API over predictor and registers every route
func NewServer(info config.ServiceConfig, cfg *config.ServerConfig, predictor Predictor, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	s := &Server{
		ServiceBase: service.NewServiceBase("http-server", log),
		config:      cfg,
		serviceInfo: info,
		logger:      log,
		router:      router,
		predictor:   predictor,
		version:     "dev",
	}
	if cfg.RateLimit.Enabled {
		s.limiter = newClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	s.setupRoutes()
	return s
}

// SetVersion sets the version reported by the health endpoint
func (s *Server) SetVersion(version string) {
	s.version = version
}

// SetHealthReporter enables the readiness endpoint to use the full report
func (s *Server) SetHealthReporter(h HealthReporter) {
	s.health = h
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound listen address once the server has started
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Address()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	go func() {
		s.LogInfo("Starting HTTP server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.LogError("HTTP server error", err, "address", ln.Addr().String())
		}
	}()

	select {
	case <-ctx.Done():
		_ = srv.Close()
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		s.LogInfo("HTTP server started", "address", ln.Addr().String())
		return nil
	}
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.LogInfo("Stopping HTTP server")
	return srv.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)

	healthGroup := s.router.Group("/health")
	{
		healthGroup.GET("", s.handleHealth)
		healthGroup.GET("/live", s.handleLiveness)
		healthGroup.GET("/ready", s.handleReadiness)
	}

	api := s.router.Group(s.serviceInfo.APIPrefix)
	if s.limiter != nil {
		api.Use(rateLimit(s.limiter))
	}
	{
		api.POST("/verify-gender", s.handleVerifyGender)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
