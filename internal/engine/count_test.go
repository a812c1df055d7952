package engine

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/service/athena"
)

func TestCountParsesTotal(t *testing.T) {
	api := &fakeAPI{
		states: []string{athena.QueryExecutionStateSucceeded},
		pages: []*athena.GetQueryResultsOutput{
			{ResultSet: &athena.ResultSet{Rows: []*athena.Row{
				row(str("total")),
				row(str("42")),
			}}},
		},
	}
	counter := &Counter{Executor: newExecutor(api)}

	if got := counter.Count(context.Background(), "latest_entity_save"); got != 42 {
		t.Fatalf("Count = %d, want 42", got)
	}
}

func TestCountDegradesToZero(t *testing.T) {
	t.Run("query failure", func(t *testing.T) {
		api := &fakeAPI{states: []string{athena.QueryExecutionStateFailed}}
		counter := &Counter{Executor: newExecutor(api)}
		if got := counter.Count(context.Background(), "latest_entity_save"); got != 0 {
			t.Fatalf("Count = %d, want 0", got)
		}
	})

	t.Run("empty grid", func(t *testing.T) {
		api := &fakeAPI{
			states: []string{athena.QueryExecutionStateSucceeded},
			pages: []*athena.GetQueryResultsOutput{
				{ResultSet: &athena.ResultSet{Rows: []*athena.Row{row(str("total"))}}},
			},
		}
		counter := &Counter{Executor: newExecutor(api)}
		if got := counter.Count(context.Background(), "latest_entity_save"); got != 0 {
			t.Fatalf("Count = %d, want 0", got)
		}
	})

	t.Run("non-numeric cell", func(t *testing.T) {
		api := &fakeAPI{
			states: []string{athena.QueryExecutionStateSucceeded},
			pages: []*athena.GetQueryResultsOutput{
				{ResultSet: &athena.ResultSet{Rows: []*athena.Row{
					row(str("total")),
					row(str("many")),
				}}},
			},
		}
		counter := &Counter{Executor: newExecutor(api)}
		if got := counter.Count(context.Background(), "latest_entity_save"); got != 0 {
			t.Fatalf("Count = %d, want 0", got)
		}
	})
}

func TestInt64OrZeroKeyPreference(t *testing.T) {
	total := "7"
	count := "9"
	record := Record{"total": &total, "count": &count}
	if got := Int64OrZero(record, "total", "count"); got != 7 {
		t.Fatalf("Int64OrZero = %d, want 7", got)
	}
	if got := Int64OrZero(Record{"count": &count}, "total", "count"); got != 9 {
		t.Fatalf("Int64OrZero fallback = %d, want 9", got)
	}
	if got := Int64OrZero(Record{"total": nil}, "total"); got != 0 {
		t.Fatalf("Int64OrZero nil cell = %d, want 0", got)
	}
}
