package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/willahq/datalake-admin/internal/datalake"
)

func handleGeneralMetrics(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Metrics == nil {
		writeError(w, http.StatusNotImplemented, "metrics are not configured")
		return
	}
	writeJSON(w, http.StatusOK, deps.Metrics.General(r.Context()))
}

func handleTimeseriesMetrics(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Metrics == nil {
		writeError(w, http.StatusNotImplemented, "metrics are not configured")
		return
	}

	days := datalake.DefaultTimeseriesDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = parsed
		}
	}
	days = datalake.ClampTimeseriesDays(days)

	points := deps.Metrics.Timeseries(r.Context(), days)
	writeJSON(w, http.StatusOK, map[string]any{
		"days":   days,
		"points": points,
	})
}
