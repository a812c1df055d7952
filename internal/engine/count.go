package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// Counter issues single-row count queries. It never fails outward: query
// errors, empty results and non-numeric cells all degrade to zero so a
// dashboard renders 0 instead of crashing.
type Counter struct {
	Executor *Executor
	Logger   *slog.Logger
}

func (c *Counter) Count(ctx context.Context, tableExpression string) int64 {
	statement := fmt.Sprintf("SELECT COUNT(1) AS total FROM %s", tableExpression)
	records, err := c.Executor.Execute(ctx, statement)
	if err != nil {
		if c.Logger != nil {
			c.Logger.WarnContext(ctx, "count query failed", slog.String("table", tableExpression), slog.Any("error", err))
		}
		return 0
	}
	if len(records) == 0 {
		return 0
	}
	return Int64OrZero(records[0], "total", "count")
}

// Int64OrZero coerces the first present cell under the given keys to an
// integer. The engine returns every value as text.
func Int64OrZero(record Record, keys ...string) int64 {
	for _, key := range keys {
		value, ok := record[key]
		if !ok || value == nil {
			continue
		}
		parsed, err := strconv.ParseInt(*value, 10, 64)
		if err != nil {
			continue
		}
		return parsed
	}
	return 0
}
