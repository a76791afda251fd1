package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"github.com/mikey/netsereno/internal/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP front-end serving the upload page and the analysis API
type Server struct {
	service  *core.AnalysisService
	renderer *report.Renderer
	cfg      config.ServerConfig
	logger   *zap.Logger
	router   *gin.Engine
	srv      *http.Server
}

// NewServer creates a new HTTP front-end
func NewServer(
	service *core.AnalysisService,
	renderer *report.Renderer,
	cfg config.ServerConfig,
	logger *zap.Logger,
) *Server {
	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		logger.Warn("Unknown server mode, using release", zap.String("mode", cfg.Mode))
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		service:  service,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(requestMetrics())

	router.GET("/", s.index)
	router.POST("/analyze", s.analyze)
	router.POST("/download_report", s.downloadReport)
	router.GET("/healthz", s.healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// Leave room for the assessment call on top of the upload
		WriteTimeout: s.cfg.AnalysisTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the HTTP server down
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
