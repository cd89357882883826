// Package server exposes the session handlers over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/WebDbAssistant/internal/config"
	"github.com/JonMunkholm/WebDbAssistant/internal/db"
	"github.com/JonMunkholm/WebDbAssistant/internal/observability"
	"github.com/JonMunkholm/WebDbAssistant/internal/session"
)

// Exporter streams the rows of a read query.
type Exporter interface {
	Rows(ctx context.Context, d db.Descriptor, query string, fn func(columns []string, values []any) error) error
}

type Dependencies struct {
	Service  *session.Service
	Exporter Exporter
	Store    *Store
	Logger   *slog.Logger
	// Defaults seed every new session.
	Defaults session.Options
	Database db.Descriptor
}

type app struct {
	service  *session.Service
	exporter Exporter
	store    *Store
	logger   *slog.Logger
	defaults session.Options
	database db.Descriptor
}

// NewHandler builds the router.
func NewHandler(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := deps.Store
	if store == nil {
		store = NewStore()
	}
	a := &app{
		service:  deps.Service,
		exporter: deps.Exporter,
		store:    store,
		logger:   logger,
		defaults: deps.Defaults,
		database: deps.Database,
	}

	r := chi.NewRouter()
	r.Use(observability.LoggingMiddleware(logger))
	r.Use(observability.MetricsMiddleware)

	r.Get("/healthz", a.handleHealth)
	r.Get("/models", a.handleModels)
	r.Post("/databases", a.handleListDatabases)
	r.Method(http.MethodGet, "/metrics", observability.MetricsHandler())

	r.Post("/sessions", a.handleCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", a.handleGetSession)
		r.Delete("/", a.handleDeleteSession)
		r.Post("/messages", a.handleSend)
		r.Post("/reset", a.handleReset)
		r.Put("/prompt", a.handlePrompt)
		r.Put("/options", a.handleOptions)
		r.Put("/database", a.handleSelectDatabase)
		r.Get("/schema", a.handleSchema)
		r.Post("/query", a.handleQuery)
		r.Post("/export", a.handleExportCSV)
	})
	return r
}

// Run serves handler on cfg.HTTP.Address until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return err
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON decodes the request body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
