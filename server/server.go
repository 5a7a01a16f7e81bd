package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"property-finder/config"
	"property-finder/services"
	"property-finder/session"
	"property-finder/utils"
)

// Server is the JSON presentation layer over the normalizer and query
// engine. It owns no listing state of its own — every request resolves a
// session's dataset from the store and runs the pure pipeline over it.
type Server struct {
	cfg        *config.Config
	logger     *utils.Logger
	store      *session.Store
	normalizer *services.Normalizer
	engine     *services.Engine
}

// New wires a Server from its collaborators.
func New(cfg *config.Config, logger *utils.Logger, store *session.Store,
	normalizer *services.Normalizer, engine *services.Engine) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		normalizer: normalizer,
		engine:     engine,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/datasets", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Put("/{id}", s.handleReplace)
		r.Delete("/{id}", s.handleDelete)
		r.Get("/{id}/stats", s.handleStats)
		r.Get("/{id}/listings", s.handleListings)
		r.Get("/{id}/listings/{mls}/contact", s.handleContact)
	})

	return r
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Listening on %s", s.cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[server] Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
