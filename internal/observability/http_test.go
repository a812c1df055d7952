package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/willahq/datalake-admin/internal/config"
)

func testLoggerConfig() config.Config {
	return config.Config{
		Profile:       config.ProfileTest,
		Service:       config.ServiceConfig{Name: "datalake-admin"},
		Engine:        config.EngineConfig{Kind: config.EngineLocal},
		Observability: config.ObservabilityConfig{LogJSON: true},
	}
}

func TestTraceMiddlewarePropagatesInboundID(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/saves", nil)
	req.Header.Set("X-Trace-ID", "trace-abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if seen != "trace-abc" {
		t.Fatalf("trace in context = %q", seen)
	}
	if got := recorder.Header().Get("X-Trace-ID"); got != "trace-abc" {
		t.Fatalf("trace header = %q", got)
	}
}

func TestTraceMiddlewareGeneratesID(t *testing.T) {
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/saves", nil))

	if recorder.Header().Get("X-Trace-ID") == "" {
		t.Fatal("trace header missing")
	}
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testLoggerConfig(), &buf)

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/saves/ghost", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %q", buf.String())
	}
	if entry["msg"] != "http_request" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Fatalf("status = %v", entry["status"])
	}
	if entry["service"] != "datalake-admin" || entry["profile"] != "test" || entry["engine"] != "local" {
		t.Fatalf("entry = %v", entry)
	}
	if entry["path"] != "/saves/ghost" {
		t.Fatalf("path = %v", entry["path"])
	}
}

func TestLoggerAttachesTraceIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testLoggerConfig(), &buf)

	ctx := ContextWithTraceID(context.Background(), "trace-xyz")
	logger.InfoContext(ctx, "engine ready")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %q", buf.String())
	}
	if entry["trace_id"] != "trace-xyz" {
		t.Fatalf("trace_id = %v", entry["trace_id"])
	}

	buf.Reset()
	logger.Info("no trace")
	entry = map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %q", buf.String())
	}
	if _, ok := entry["trace_id"]; ok {
		t.Fatal("trace_id must be absent without a traced context")
	}
}

func TestMetricsMiddlewareLabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /saves/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := MetricsMiddleware(mux)

	series := httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /saves/{id}", "200")
	before := testutil.ToFloat64(series)

	for _, id := range []string{"save-1", "save-2", "save-3"} {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/saves/"+id, nil))
	}

	if got := testutil.ToFloat64(series) - before; got != 3 {
		t.Fatalf("pattern series grew by %v, want 3", got)
	}
	// raw paths must never become series of their own
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/saves/save-1", "200")); got != 0 {
		t.Fatalf("raw path series = %v, want 0", got)
	}
}

func TestMetricsMiddlewareUnmatchedRoute(t *testing.T) {
	handler := MetricsMiddleware(http.NewServeMux())

	series := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(series)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := testutil.ToFloat64(series) - before; got != 1 {
		t.Fatalf("unmatched series grew by %v, want 1", got)
	}
}
