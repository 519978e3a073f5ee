// Package server exposes the configuration and model discovery HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"perplexica/internal/config"
	"perplexica/internal/logging"
	"perplexica/internal/metrics"
	"perplexica/internal/providers"
	"perplexica/internal/searxng"
	"perplexica/internal/version"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	store    *config.Store
	registry *providers.Registry
	chats    ChatStore
	search   Searcher
	version  version.Info
	log      zerolog.Logger
}

// Option configures optional server dependencies
type Option func(*Server)

// WithChatStore enables the /api/chats routes
func WithChatStore(chats ChatStore) Option {
	return func(s *Server) { s.chats = chats }
}

// New creates a new server instance. Discovery queries the SearxNG instance named
// in the store's configuration.
func New(store *config.Store, registry *providers.Registry, versionInfo version.Info, opts ...Option) *Server {
	if store == nil {
		store = config.NewStore(nil)
	}
	if registry == nil {
		registry = providers.NewRegistry(nil)
	}
	s := &Server{
		store:    store,
		registry: registry,
		version:  versionInfo,
		log:      logging.WithComponent("server"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.search = searxng.New(store.Load().GetSearxngAPIURL(), nil)
	return s
}

// Handler builds the router with all middleware and routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)
	r.Use(tracing)
	r.Use(s.requestLogger)

	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/models", s.handleGetModels)
		r.Get("/discover", s.handleDiscover)

		r.Route("/config", func(r chi.Router) {
			r.Get("/", s.handleGetConfig)
			r.With(configUpdateRateLimit()).Post("/", s.handleUpdateConfig)
		})

		if s.chats != nil {
			r.Route("/chats", func(r chi.Router) {
				r.Get("/", s.handleListChats)
				r.Post("/", s.handleCreateChat)
				r.Get("/{id}", s.handleGetChat)
				r.Delete("/{id}", s.handleDeleteChat)
				r.Post("/{id}/messages", s.handleAddMessage)
			})
		}
	})

	return r
}

// Start listens on the configured address and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := s.store.Load().GetListenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("Starting server")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
