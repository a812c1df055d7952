package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "willa_http_requests_total",
			Help: "Total number of HTTP requests by route pattern.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "willa_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	engineQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "willa_engine_queries_total",
			Help: "Query executions by terminal state.",
		},
		[]string{"state"},
	)

	engineQueryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "willa_engine_query_duration_seconds",
			Help:    "Wall-clock time from submit to terminal state.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	chatDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "willa_chat_deliveries_total",
			Help: "Chat reply delivery attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		engineQueriesTotal,
		engineQueryDurationSeconds,
		chatDeliveriesTotal,
	)
}

func ObserveQuery(state string, elapsed time.Duration) {
	engineQueriesTotal.WithLabelValues(state).Inc()
	engineQueryDurationSeconds.Observe(elapsed.Seconds())
}

func IncrementChatDelivery(result string) {
	chatDeliveriesTotal.WithLabelValues(result).Inc()
}
