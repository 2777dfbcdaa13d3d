// Package preview serves built documents over HTTP for local viewing.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"
)

// Server represents the preview HTTP server
type Server struct {
	router *chi.Mux
	addr   string
	logger *slog.Logger
}

// ServerConfig holds configuration for the preview server
type ServerConfig struct {
	Dir       string
	Bind      string
	Port      int
	Version   string
	GitCommit string
	BuildTime string

	Fs     afero.Fs
	Logger *slog.Logger
}

// NewServer creates a new preview server with the given configuration
func NewServer(config ServerConfig) (*Server, error) {
	if config.Dir == "" {
		return nil, errors.New("document directory is required")
	}
	if config.Fs == nil {
		config.Fs = afero.NewOsFs()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	exists, err := afero.DirExists(config.Fs, config.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check document directory %s: %w", config.Dir, err)
	}
	if !exists {
		return nil, fmt.Errorf("document directory %s does not exist", config.Dir)
	}

	handler := NewHandler(config.Fs, config.Dir, config.Logger, config.Version, config.GitCommit, config.BuildTime)

	router := chi.NewRouter()
	setupMiddleware(router, config.Logger)
	setupRoutes(router, handler)

	return &Server{
		router: router,
		addr:   net.JoinHostPort(config.Bind, strconv.Itoa(config.Port)),
		logger: config.Logger,
	}, nil
}

// setupMiddleware configures the middleware chain
func setupMiddleware(router *chi.Mux, logger *slog.Logger) {
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures the preview routes
func setupRoutes(router *chi.Mux, handler *Handler) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.Health)
		r.Get("/version", handler.Version)
		r.Get("/documents", handler.ListDocuments)
	})

	router.Get("/documents/{name}", handler.GetDocument)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// StartWithContext starts the HTTP server with graceful shutdown support
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("preview server listening", "addr", s.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down preview server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("preview server shutdown error", "error", err)
			return err
		}

		s.logger.Info("preview server stopped gracefully")
		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
