package datalake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/willahq/datalake-admin/internal/engine"
)

const (
	DefaultTimeseriesDays = 7
	MaxTimeseriesDays     = 90
)

type GeneralMetrics struct {
	TotalSaves  int64 `json:"total_saves"`
	TotalBoards int64 `json:"total_boards"`
	TotalEdges  int64 `json:"total_edges"`
}

type TimeseriesPoint struct {
	Date       string `json:"date"`
	TotalSaves int64  `json:"total_saves"`
}

// Metrics aggregates lake counts. Like the count helpers, it never
// fails outward; a broken query renders as zeros.
type Metrics struct {
	Runner Runner
	Logger *slog.Logger
}

// General returns the three entity totals in one engine round trip.
func (m *Metrics) General(ctx context.Context) GeneralMetrics {
	statement := fmt.Sprintf(
		"SELECT s.total_saves, b.total_boards, e.total_edges "+
			"FROM (SELECT COUNT(1) AS total_saves FROM %s) s "+
			"CROSS JOIN (SELECT COUNT(1) AS total_boards FROM %s) b "+
			"CROSS JOIN (SELECT COUNT(1) AS total_edges FROM %s) e",
		SavesTable, BoardsTable, EdgesTable,
	)

	records, err := m.Runner.Execute(ctx, statement)
	if err != nil {
		m.warn(ctx, "general metrics query failed", err)
		return GeneralMetrics{}
	}
	if len(records) == 0 {
		return GeneralMetrics{}
	}
	row := records[0]
	return GeneralMetrics{
		TotalSaves:  engine.Int64OrZero(row, "total_saves"),
		TotalBoards: engine.Int64OrZero(row, "total_boards"),
		TotalEdges:  engine.Int64OrZero(row, "total_edges"),
	}
}

// Timeseries returns per-day save totals over the trailing window. Days
// outside [1, MaxTimeseriesDays] are clamped; non-numeric input should
// be mapped to DefaultTimeseriesDays by the caller.
func (m *Metrics) Timeseries(ctx context.Context, days int) []TimeseriesPoint {
	days = ClampTimeseriesDays(days)

	statement := fmt.Sprintf(
		"SELECT date(from_iso8601_timestamp(createdat)) AS day, COUNT(1) AS total_saves "+
			"FROM %s "+
			"WHERE from_iso8601_timestamp(createdat) >= date_add('day', -%d, current_date) "+
			"GROUP BY 1 ORDER BY 1",
		SavesTable, days,
	)

	records, err := m.Runner.Execute(ctx, statement)
	if err != nil {
		m.warn(ctx, "timeseries metrics query failed", err)
		return []TimeseriesPoint{}
	}

	points := make([]TimeseriesPoint, 0, len(records))
	for _, record := range records {
		points = append(points, TimeseriesPoint{
			Date:       stringValue(record["day"]),
			TotalSaves: engine.Int64OrZero(record, "total_saves"),
		})
	}
	return points
}

func ClampTimeseriesDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxTimeseriesDays {
		return MaxTimeseriesDays
	}
	return days
}

func (m *Metrics) warn(ctx context.Context, msg string, err error) {
	if m.Logger != nil {
		m.Logger.WarnContext(ctx, msg, slog.Any("error", err))
	}
}
