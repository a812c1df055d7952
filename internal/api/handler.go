package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/willahq/datalake-admin/internal/config"
	"github.com/willahq/datalake-admin/internal/datalake"
	"github.com/willahq/datalake-admin/internal/directory"
	"github.com/willahq/datalake-admin/internal/messaging"
	"github.com/willahq/datalake-admin/internal/observability"
)

// Analyst answers one chat message.
type Analyst interface {
	Ask(ctx context.Context, message string) (string, error)
}

type Dependencies struct {
	Logger      *slog.Logger
	Saves       *datalake.Lister
	Boards      *datalake.Lister
	Metrics     *datalake.Metrics
	Directory   *directory.Directory
	Analyst     Analyst
	Runner      *messaging.Runner
	Queue       messaging.Queue
	Channel     messaging.Channel
	ChatTimeout time.Duration
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})
	// The spec'd GET /metrics serves lake counts, so the prometheus
	// handler lives elsewhere.
	mux.Handle("GET /system/metrics", promhttp.Handler())

	mux.HandleFunc("GET /saves", func(w http.ResponseWriter, r *http.Request) {
		handleListSaves(deps, w, r)
	})
	mux.HandleFunc("GET /saves/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleGetSave(deps, w, r)
	})
	mux.HandleFunc("GET /boards", func(w http.ResponseWriter, r *http.Request) {
		handleListBoards(deps, w, r)
	})
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		handleGeneralMetrics(deps, w, r)
	})
	mux.HandleFunc("GET /metrics/timeseries", func(w http.ResponseWriter, r *http.Request) {
		handleTimeseriesMetrics(deps, w, r)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		handleListUsers(deps, w, r)
	})
	mux.HandleFunc("POST /agent/chat", func(w http.ResponseWriter, r *http.Request) {
		handleAgentChat(deps, w, r)
	})
	mux.HandleFunc("POST /ws", func(w http.ResponseWriter, r *http.Request) {
		handleSocketEvent(deps, w, r)
	})

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
		corsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

// corsMiddleware keeps every response permissive, errors included, and
// short-circuits preflight.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Headers", "*")
		header.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders the error's description only; stack traces and
// partial state stay inside.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
