// Package local emulates the query engine boundary for development
// without the managed service. Statements run synchronously against
// duckdb views over parquet objects staged from the object store; the
// submit/poll/results protocol is then replayed from in-memory state.
package local

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/athena"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/willahq/datalake-admin/internal/storage"
)

// resultPageSize mirrors the managed service's maximum results page.
const resultPageSize = 1000

type execution struct {
	state  string
	reason string
	header []string
	rows   [][]*string
}

type Engine struct {
	Store storage.ObjectStore

	setupOnce sync.Once
	setupErr  error
	db        *sql.DB

	mu         sync.Mutex
	executions map[string]*execution
}

func NewEngine(store storage.ObjectStore) *Engine {
	return &Engine{Store: store, executions: map[string]*execution{}}
}

func (e *Engine) StartQueryExecutionWithContext(ctx aws.Context, input *athena.StartQueryExecutionInput, _ ...request.Option) (*athena.StartQueryExecutionOutput, error) {
	statement := aws.StringValue(input.QueryString)
	if strings.TrimSpace(statement) == "" {
		return nil, fmt.Errorf("query string is required")
	}

	handle := uuid.NewString()
	exec := &execution{state: athena.QueryExecutionStateSucceeded}
	if err := e.run(ctx, statement, exec); err != nil {
		exec.state = athena.QueryExecutionStateFailed
		exec.reason = err.Error()
	}

	e.mu.Lock()
	e.executions[handle] = exec
	e.mu.Unlock()

	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String(handle)}, nil
}

func (e *Engine) GetQueryExecutionWithContext(_ aws.Context, input *athena.GetQueryExecutionInput, _ ...request.Option) (*athena.GetQueryExecutionOutput, error) {
	exec, err := e.lookup(aws.StringValue(input.QueryExecutionId))
	if err != nil {
		return nil, err
	}
	status := &athena.QueryExecutionStatus{State: aws.String(exec.state)}
	if exec.reason != "" {
		status.StateChangeReason = aws.String(exec.reason)
	}
	return &athena.GetQueryExecutionOutput{
		QueryExecution: &athena.QueryExecution{
			QueryExecutionId: input.QueryExecutionId,
			Status:           status,
		},
	}, nil
}

func (e *Engine) GetQueryResultsWithContext(_ aws.Context, input *athena.GetQueryResultsInput, _ ...request.Option) (*athena.GetQueryResultsOutput, error) {
	exec, err := e.lookup(aws.StringValue(input.QueryExecutionId))
	if err != nil {
		return nil, err
	}
	if exec.state != athena.QueryExecutionStateSucceeded {
		return nil, fmt.Errorf("execution is not in SUCCEEDED state")
	}

	offset := 0
	if token := aws.StringValue(input.NextToken); token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid results token %q", token)
		}
		offset = parsed
	}

	rows := make([]*athena.Row, 0, resultPageSize+1)
	if offset == 0 && len(exec.header) > 0 {
		rows = append(rows, headerRow(exec.header))
	}
	end := offset + resultPageSize
	if end > len(exec.rows) {
		end = len(exec.rows)
	}
	for _, dataRow := range exec.rows[offset:end] {
		rows = append(rows, dataRow2athena(dataRow))
	}

	out := &athena.GetQueryResultsOutput{ResultSet: &athena.ResultSet{Rows: rows}}
	if end < len(exec.rows) {
		out.NextToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

// GetWorkGroupWithContext always reports a configured output location;
// the local engine keeps results in memory.
func (e *Engine) GetWorkGroupWithContext(_ aws.Context, input *athena.GetWorkGroupInput, _ ...request.Option) (*athena.GetWorkGroupOutput, error) {
	return &athena.GetWorkGroupOutput{
		WorkGroup: &athena.WorkGroup{
			Name: input.WorkGroup,
			Configuration: &athena.WorkGroupConfiguration{
				ResultConfiguration: &athena.ResultConfiguration{
					OutputLocation: aws.String("local://results"),
				},
			},
		},
	}, nil
}

func (e *Engine) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

func (e *Engine) lookup(handle string) (*execution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	exec, ok := e.executions[handle]
	if !ok {
		return nil, fmt.Errorf("unknown query execution %q", handle)
	}
	return exec, nil
}

func (e *Engine) run(ctx context.Context, statement string, exec *execution) error {
	e.setupOnce.Do(func() { e.setupErr = e.setup(ctx) })
	if e.setupErr != nil {
		return e.setupErr
	}

	rows, err := e.db.QueryContext(ctx, strings.TrimRight(strings.TrimSpace(statement), ";"))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	exec.header = columns

	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return err
		}
		exec.rows = append(exec.rows, stringifyRow(values))
	}
	return rows.Err()
}

// setup opens duckdb and materializes one view per table from the
// parquet objects under that table's key prefix.
func (e *Engine) setup(ctx context.Context) error {
	if e.Store == nil {
		return fmt.Errorf("object store is required")
	}

	objects, err := e.Store.List(ctx, "")
	if err != nil {
		return fmt.Errorf("list lake objects: %w", err)
	}

	workDir, err := os.MkdirTemp("", "willa-local-engine-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	grouped := map[string][]string{}
	for index, object := range objects {
		if !strings.HasSuffix(object.Key, ".parquet") {
			continue
		}
		table, _, found := strings.Cut(object.Key, "/")
		if !found || table == "" {
			continue
		}

		reader, err := e.Store.Get(ctx, object.Key)
		if err != nil {
			return fmt.Errorf("get object %q: %w", object.Key, err)
		}
		localPath := filepath.Join(workDir, fmt.Sprintf("%s_%d.parquet", sanitizeFileComponent(table), index))
		if err := writeFile(localPath, reader); err != nil {
			_ = reader.Close()
			return fmt.Errorf("stage parquet file %q: %w", localPath, err)
		}
		if err := reader.Close(); err != nil {
			return fmt.Errorf("close object %q: %w", object.Key, err)
		}
		grouped[table] = append(grouped[table], localPath)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	for table, paths := range grouped {
		viewSQL := fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet(%s)`, quoteIdent(table), quoteStringArray(paths))
		if _, err := db.ExecContext(ctx, viewSQL); err != nil {
			_ = db.Close()
			return fmt.Errorf("create view for table %q: %w", table, err)
		}
	}
	e.db = db
	return nil
}

func headerRow(header []string) *athena.Row {
	data := make([]*athena.Datum, len(header))
	for i, name := range header {
		data[i] = &athena.Datum{VarCharValue: aws.String(name)}
	}
	return &athena.Row{Data: data}
}

func dataRow2athena(row []*string) *athena.Row {
	data := make([]*athena.Datum, len(row))
	for i, value := range row {
		data[i] = &athena.Datum{VarCharValue: value}
	}
	return &athena.Row{Data: data}
}
