package datalake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/willahq/datalake-admin/internal/engine"
)

var ErrNotFound = errors.New("record not found")

// Lister serves one lake table with both pagination strategies. Rows
// are always ordered by (createdat DESC, id DESC); the unique id breaks
// ties so pagination stays deterministic under concurrent inserts.
type Lister struct {
	Table   string
	Columns []string
	Runner  Runner
	Counter Counter
}

// Window fetches a bounded window via rank-based numbering. The engine
// has no native row-skip operator, so rows are numbered and the numbered
// range is filtered. Ordering is only as stable as the engine's snapshot
// per query; separate pages may shift when rows land in between.
func (l *Lister) Window(ctx context.Context, limit, offset int) (WindowPage, error) {
	limit = ClampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	selectCols := strings.Join(l.Columns, ", ")
	statement := fmt.Sprintf(
		"WITH ordered AS ("+
			"  SELECT %s, row_number() OVER (ORDER BY createdat DESC, id DESC) AS rn"+
			"  FROM %s"+
			") "+
			"SELECT %s FROM ordered WHERE rn > %d AND rn <= %d ORDER BY rn",
		selectCols, l.Table, selectCols, offset, offset+limit,
	)

	items, err := l.Runner.Execute(ctx, statement)
	if err != nil {
		return WindowPage{}, err
	}
	return WindowPage{Items: items, Count: len(items), Limit: limit, Offset: offset}, nil
}

// Total counts the table independently of any window; it degrades to 0.
func (l *Lister) Total(ctx context.Context) int64 {
	if l.Counter == nil {
		return 0
	}
	return l.Counter.Count(ctx, l.Table)
}

// Seek fetches the next page after the token's key using a strict
// lexicographic "less than" in descending-sort space, so every row is
// delivered exactly once across pages under a stable snapshot. A
// malformed token means first page.
func (l *Lister) Seek(ctx context.Context, limit int, token string) (SeekPage, error) {
	limit = ClampLimit(limit)

	var where string
	if key := DecodePageToken(token); key != nil {
		createdAt := escapeLiteral(key.CreatedAt)
		id := escapeLiteral(key.ID)
		where = fmt.Sprintf(
			" WHERE createdat < '%s' OR (createdat = '%s' AND id < '%s')",
			createdAt, createdAt, id,
		)
	}

	statement := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY createdat DESC, id DESC LIMIT %d",
		strings.Join(l.Columns, ", "), l.Table, where, limit,
	)

	items, err := l.Runner.Execute(ctx, statement)
	if err != nil {
		return SeekPage{}, err
	}

	page := SeekPage{Items: items, Count: len(items), Limit: limit}
	if len(items) == limit {
		last := items[len(items)-1]
		key := PageKey{
			CreatedAt: stringValue(last["createdat"]),
			ID:        stringValue(last["id"]),
		}
		// A token missing either key would decode to first-page
		// behavior and hand the client the same page forever.
		if key.CreatedAt != "" && key.ID != "" {
			page.NextToken = EncodePageToken(key)
		}
	}
	return page, nil
}

// Get looks up a single record by id.
func (l *Lister) Get(ctx context.Context, id string) (engine.Record, error) {
	statement := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = '%s' LIMIT 1",
		strings.Join(l.Columns, ", "), l.Table, escapeLiteral(id),
	)
	items, err := l.Runner.Execute(ctx, statement)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items[0], nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
