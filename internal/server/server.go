// Package server exposes the issue finder as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/analysis"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/evaluate"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/session"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/source"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Config configures the HTTP server.
type Config struct {
	Addr string

	// SessionTTL is how long an idle session is kept.
	SessionTTL time.Duration

	// Release switches gin to release mode.
	Release bool
}

// Server serves the /api routes.
type Server struct {
	cfg      Config
	source   source.Source
	engine   *evaluate.Engine
	sessions *session.Store
}

// New creates a server over the given collaborators.
func New(cfg Config, deps session.Deps) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if deps.Engine == nil {
		deps.Engine = evaluate.NewEngine()
	}
	if deps.Generator == nil {
		deps.Generator = analysis.NewTemplateGenerator()
	}
	return &Server{
		cfg:      cfg,
		source:   deps.Source,
		engine:   deps.Engine,
		sessions: session.NewStore(session.StoreConfig{Deps: deps, IdleTTL: cfg.SessionTTL}),
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(Recovery())
	router.Use(Logger())

	api := router.Group("/api")
	api.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	issues := api.Group("/issues")
	issues.Use(s.withSession())
	{
		issues.GET("/popular", s.popular)
		issues.GET("/more", s.more)
		issues.GET("/search", s.search)
		issues.POST("/filter", s.filter)
		issues.GET("/recommended", s.recommended)
		issues.GET("/:owner/:repo/:number", s.issue)
		issues.POST("/:owner/:repo/:number/analysis", s.analyze)
	}

	return router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go s.sweepSessions(ctx)

	errc := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server starting", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("shutdown complete")
	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				slog.DebugContext(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}
