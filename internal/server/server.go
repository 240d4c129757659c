package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/manaworks/jobportal/internal/handler"
	"github.com/manaworks/jobportal/internal/mcp"
	"github.com/manaworks/jobportal/internal/server/middleware"
	"github.com/manaworks/jobportal/internal/service"
	"github.com/manaworks/jobportal/internal/store"
	"github.com/manaworks/jobportal/internal/ui"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	EnableUI        bool
	EnableMCP       bool
	MaxBodySize     int64 // bytes
	// LoginRateLimit caps login attempts per client IP per minute. Zero
	// disables the limiter.
	LoginRateLimit int
	Version        string
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8000,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		EnableUI:        true,
		MaxBodySize:     1 << 20, // 1MB
		Version:         "dev",
	}
}

// Server is the top-level HTTP server for the job portal. It owns the Chi
// router and the services the handlers delegate to.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	jobs       *service.JobService
	visits     *service.VisitLedger
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, authSvc *service.AuthService, jobs *service.JobService, visits *service.VisitLedger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		store:   st,
		authSvc: authSvc,
		jobs:    jobs,
		visits:  visits,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP) // before Logger so remote_addr is the client, not the proxy
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(chimw.Compress(5))
	if s.cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(s.cfg.MaxBodySize))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Get("/openapi.json", handler.NewOpenAPIHandler(s.cfg.Version).ServeSpec)

	adminHandler := handler.NewAdminHandler(s.authSvc, s.visits)
	jobHandler := handler.NewJobHandler(s.jobs, s.visits)
	statsHandler := handler.NewStatsHandler(s.visits)
	requireAdmin := middleware.RequireAdmin(s.authSvc)

	r.Route("/api", func(r chi.Router) {
		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.RateLimit(s.cfg.LoginRateLimit)).Post("/login", adminHandler.Login)
			r.Post("/logout", adminHandler.Logout)
			r.Get("/verify", adminHandler.Verify)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.List)
			r.With(requireAdmin).Post("/", jobHandler.Create)
			r.Get("/{jobId}", jobHandler.Get)
			r.With(requireAdmin).Put("/{jobId}", jobHandler.Update)
			r.With(requireAdmin).Delete("/{jobId}", jobHandler.Delete)
		})

		r.Get("/search", jobHandler.Search)
		r.Get("/years", jobHandler.Years)
		r.Get("/locations", jobHandler.Locations)

		r.Get("/stats", statsHandler.Site)
		r.Get("/stats/jobs/{jobId}", statsHandler.Job)
	})

	// Streamable HTTP transport for agents.
	if s.cfg.EnableMCP {
		mcpServer := mcp.NewMCPServer(s.jobs, s.visits, s.cfg.Version, s.logger)
		r.Handle("/mcp", mcpServer.Handler())
	}

	if s.cfg.EnableUI {
		s.mountUI(r)
	}

	s.router = r
}

// mountUI serves the embedded single-page front end: index.html at the root
// and its bundled files under /assets/.
func (s *Server) mountUI(r chi.Router) {
	distFS, err := fs.Sub(ui.Dist, "dist")
	if err != nil {
		s.logger.Error("embedded UI unavailable", "error", err)
		return
	}
	r.Handle("/assets/*", http.FileServer(http.FS(distFS)))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		page, err := fs.ReadFile(distFS, "index.html")
		if err != nil {
			http.Error(w, "UI not available", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(page)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz answers 503 while the database cannot be reached.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	body := map[string]interface{}{
		"status":   "ok",
		"driver":   s.store.Driver(),
		"database": "ok",
		"sessions": s.authSvc.Sessions().Len(),
	}
	code := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		body["status"] = "degraded"
		body["database"] = "error: " + err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// Run listens on the configured address until ctx is cancelled, then drains
// in-flight requests within the shutdown timeout and closes the store.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close store", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// ServeHTTP implements http.Handler so tests can drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
