package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sundayezeilo/toolbench/internal/config"
	"github.com/sundayezeilo/toolbench/internal/generation"
	"github.com/sundayezeilo/toolbench/internal/httpx"
	"github.com/sundayezeilo/toolbench/internal/media"
	"github.com/sundayezeilo/toolbench/internal/palette"
	"github.com/sundayezeilo/toolbench/internal/shortener"
)

// Handlers groups the HTTP handlers mounted by the server.
type Handlers struct {
	Tools   *generation.Handler
	Links   *shortener.Handler
	Media   *media.Handler
	Palette *palette.Handler
}

// Server represents the HTTP server with all dependencies.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	handlers Handlers
	server   *http.Server
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, handlers Handlers) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	return s.applyMiddleware(s.setupRoutes())
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting http server",
			"addr", s.server.Addr,
			"env", s.config.App.Environment,
		)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.stop()

	case <-ctx.Done():
		s.logger.Info("context cancelled", "error", ctx.Err())
		return s.stop()
	}
}

func (s *Server) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		if closeErr := s.server.Close(); closeErr != nil {
			return fmt.Errorf("failed to close server: %w", closeErr)
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /x/health", s.healthCheckHandler)

	if h := s.handlers.Tools; h != nil {
		mux.HandleFunc("GET /api/tools", h.ListTools)
		mux.HandleFunc("GET /api/tools/{category}/{slug}", h.GetTool)
		mux.HandleFunc("POST /api/tools/{category}/{slug}/render", h.RenderTool)
		mux.HandleFunc("POST /api/tools/{category}/{slug}/sessions", h.OpenSession)

		mux.HandleFunc("GET /api/sessions/{id}", h.GetSession)
		mux.HandleFunc("PATCH /api/sessions/{id}", h.UpdateSession)
		mux.HandleFunc("DELETE /api/sessions/{id}", h.CloseSession)
		mux.HandleFunc("GET /api/sessions/{id}/result", h.SessionResult)
		mux.HandleFunc("POST /api/sessions/{id}/toggle", h.ToggleOption)
		mux.HandleFunc("POST /api/sessions/{id}/items", h.AddItem)
		mux.HandleFunc("DELETE /api/sessions/{id}/items", h.RemoveItem)
		mux.HandleFunc("POST /api/sessions/{id}/generate", h.Generate)
		mux.HandleFunc("DELETE /api/sessions/{id}/generate", h.CancelGeneration)
	}

	if h := s.handlers.Links; h != nil {
		mux.HandleFunc("POST /api/links", h.CreateLink)
		mux.HandleFunc("GET /api/links", h.ListLinks)
		mux.HandleFunc("GET /api/links/{id}", h.GetLink)
		mux.HandleFunc("DELETE /api/links/{id}", h.DeleteLink)
		mux.HandleFunc("POST /api/links/{id}/clicks", h.SimulateClick)
		mux.HandleFunc("GET /api/links/{id}/stats", h.LinkStats)
		mux.HandleFunc("GET /api/links/{id}/qr.png", h.LinkQRCode)
		mux.HandleFunc("GET /s/{code}", h.ResolveLink)
	}

	if h := s.handlers.Media; h != nil {
		mux.HandleFunc("POST /api/media", h.Upload)
		mux.HandleFunc("GET /api/media", h.ListMedia)
		mux.HandleFunc("GET /api/media/{id}", h.ServeMedia)
		mux.HandleFunc("GET /api/media/{id}/download", h.DownloadMedia)
		mux.HandleFunc("DELETE /api/media/{id}", h.DeleteMedia)
		mux.HandleFunc("POST /api/media/bulk-delete", h.BulkDeleteMedia)
		mux.HandleFunc("DELETE /api/media", h.ClearMedia)

		mux.HandleFunc("POST /api/downloads", h.StartDownload)
		mux.HandleFunc("GET /api/downloads", h.ListDownloads)
		mux.HandleFunc("GET /api/downloads/{id}", h.GetDownload)
		mux.HandleFunc("DELETE /api/downloads/{id}", h.CancelDownload)
		mux.HandleFunc("GET /api/downloads/{id}/file", h.DownloadFile)
	}

	if h := s.handlers.Palette; h != nil {
		mux.HandleFunc("POST /api/palette", h.Generate)
		mux.HandleFunc("GET /api/palette/schemes", h.ListSchemes)
	}

	return mux
}

// applyMiddleware wraps the handler with middleware in the correct order.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	return httpx.Chain(
		httpx.Recovery(s.logger), // Outermost: catch panics
		httpx.RequestID,
		httpx.Logger(s.logger),
		httpx.CORS(s.config.Server.AllowedOrigins),
	)(handler)
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.Service.Name,
		"version": s.config.Service.Version,
	})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forcing close")
			return s.server.Close()
		}
		return err
	}

	return nil
}
