package datalake

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/willahq/datalake-admin/internal/engine"
)

func metricRow(pairs map[string]string) engine.Record {
	record := engine.Record{}
	for key, value := range pairs {
		v := value
		record[key] = &v
	}
	return record
}

func TestGeneralMetrics(t *testing.T) {
	runner := &fakeRunner{records: []engine.Record{metricRow(map[string]string{
		"total_saves":  "120",
		"total_boards": "14",
		"total_edges":  "301",
	})}}
	metrics := &Metrics{Runner: runner}

	got := metrics.General(context.Background())
	want := GeneralMetrics{TotalSaves: 120, TotalBoards: 14, TotalEdges: 301}
	if got != want {
		t.Fatalf("General = %+v, want %+v", got, want)
	}

	statement := runner.statements[0]
	for _, table := range []string{SavesTable, BoardsTable, EdgesTable} {
		if !strings.Contains(statement, "FROM "+table) {
			t.Fatalf("statement missing table %s:\n%s", table, statement)
		}
	}
}

func TestGeneralMetricsDegradeToZeros(t *testing.T) {
	metrics := &Metrics{Runner: &fakeRunner{err: errors.New("engine down")}}
	if got := metrics.General(context.Background()); got != (GeneralMetrics{}) {
		t.Fatalf("General = %+v, want zeros", got)
	}

	metrics = &Metrics{Runner: &fakeRunner{}}
	if got := metrics.General(context.Background()); got != (GeneralMetrics{}) {
		t.Fatalf("General on empty grid = %+v, want zeros", got)
	}
}

func TestTimeseries(t *testing.T) {
	runner := &fakeRunner{records: []engine.Record{
		metricRow(map[string]string{"day": "2026-08-29", "total_saves": "3"}),
		metricRow(map[string]string{"day": "2026-08-30", "total_saves": "5"}),
	}}
	metrics := &Metrics{Runner: runner}

	points := metrics.Timeseries(context.Background(), 7)
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].Date != "2026-08-29" || points[0].TotalSaves != 3 {
		t.Fatalf("points[0] = %+v", points[0])
	}
	if !strings.Contains(runner.statements[0], "-7, current_date") {
		t.Fatalf("statement = %s", runner.statements[0])
	}
}

func TestTimeseriesDegradesToEmpty(t *testing.T) {
	metrics := &Metrics{Runner: &fakeRunner{err: errors.New("engine down")}}
	points := metrics.Timeseries(context.Background(), 7)
	if points == nil || len(points) != 0 {
		t.Fatalf("points = %v, want empty slice", points)
	}
}

func TestClampTimeseriesDays(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1},
		{-4, 1},
		{7, 7},
		{90, 90},
		{365, MaxTimeseriesDays},
	}
	for _, tt := range tests {
		if got := ClampTimeseriesDays(tt.in); got != tt.want {
			t.Errorf("ClampTimeseriesDays(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
