// Package datalake exposes the lake's admin read models: windowed and
// keyset-paginated listings, single-record lookups and count metrics,
// all executed through the query engine.
package datalake

import (
	"context"
	"strconv"
	"strings"

	"github.com/willahq/datalake-admin/internal/engine"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Runner is the slice of the executor the read models need.
type Runner interface {
	Execute(ctx context.Context, statement string) ([]engine.Record, error)
}

// Counter issues lenient count queries; engine.Counter is the
// production implementation.
type Counter interface {
	Count(ctx context.Context, tableExpression string) int64
}

// WindowPage is an offset-window result. Offset-window and keyset pages
// are deliberately distinct types; their semantics are never merged.
type WindowPage struct {
	Items      []engine.Record `json:"items"`
	Count      int             `json:"count"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
	TotalCount *int64          `json:"totalCount,omitempty"`
}

// SeekPage is a keyset result. NextToken is present only when the page
// came back exactly full.
type SeekPage struct {
	Items     []engine.Record `json:"items"`
	Count     int             `json:"count"`
	Limit     int             `json:"limit"`
	NextToken string          `json:"nextToken,omitempty"`
}

// LimitFromString parses a caller-supplied limit. Absent or non-numeric
// input falls back to the default; the result is always within
// [1, MaxLimit].
func LimitFromString(raw string) int {
	limit := DefaultLimit
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil {
			limit = parsed
		}
	}
	return ClampLimit(limit)
}

// OffsetFromString parses a caller-supplied offset; anything unusable
// becomes 0.
func OffsetFromString(raw string) int {
	offset := 0
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		return 0
	}
	return offset
}

func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// escapeLiteral doubles single quotes for interpolation into a string
// literal. Statements are read-only by policy; this only keeps quoted
// values from breaking the statement.
func escapeLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
