// Package server exposes the batch procedures and the watch redirect over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Veraticus/taxonomist/internal/config"
	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/Veraticus/taxonomist/internal/feed"
	"github.com/Veraticus/taxonomist/internal/metrics"
	"github.com/Veraticus/taxonomist/internal/service"
	"github.com/gin-gonic/gin"
)

// Config wires the server's collaborators.
type Config struct {
	Store   service.Storage
	Metrics *metrics.Collector
	// Fetcher enables the /ingest endpoint when set.
	Fetcher feed.Fetcher
	// Defaults supplies option values not present in the query string.
	Defaults config.Source
	CronKey  string
}

// Server handles HTTP requests. Batch runs are serialized.
type Server struct {
	store    service.Storage
	engine   *engine.Engine
	metrics  *metrics.Collector
	ingester *feed.Ingester
	defaults config.Source
	cronKey  string
	runMu    sync.Mutex
}

// New creates a server.
func New(cfg Config) *Server {
	var opts []engine.Option
	if cfg.Metrics != nil {
		opts = append(opts, engine.WithObserver(cfg.Metrics))
	}
	var ingester *feed.Ingester
	if cfg.Fetcher != nil {
		ingester = feed.NewIngester(cfg.Store, cfg.Fetcher)
	}
	return &Server{
		store:    cfg.Store,
		ingester: ingester,
		engine:   engine.New(cfg.Store, opts...),
		metrics:  cfg.Metrics,
		defaults: cfg.Defaults,
		cronKey:  cfg.CronKey,
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthcheck", healthCheck)
	router.GET("/watch", s.handleWatch)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	cron := router.Group("/")
	cron.Use(RequireCronKey(s.cronKey))
	cron.GET("/auto_classify", s.handleClassify)
	cron.POST("/auto_classify", s.handleClassify)
	cron.GET("/backfill_subcategories", s.handleBackfill)
	cron.POST("/backfill_subcategories", s.handleBackfill)
	if s.ingester != nil {
		cron.GET("/ingest", s.handleIngest)
		cron.POST("/ingest", s.handleIngest)
	}

	return router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) source(c *gin.Context, params map[string]string) config.Source {
	query := config.NewQuerySource(c.Request.URL.Query(), params)
	if s.defaults == nil {
		return query
	}
	return config.Layered{query, s.defaults}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
