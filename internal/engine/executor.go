package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/athena"
	"github.com/cenkalti/backoff/v4"

	"github.com/willahq/datalake-admin/internal/observability"
)

// Executor runs one statement at a time against the engine. All fields
// are fixed at construction; the executor itself is stateless across
// calls and safe for concurrent use.
type Executor struct {
	API            API
	Database       string
	Workgroup      string
	OutputLocation string
	PollInterval   time.Duration
	MaxWait        time.Duration
	Logger         *slog.Logger
}

var errExecutionPending = errors.New("query execution is not terminal yet")

// Execute submits the statement, waits for a terminal state and returns
// the decoded records. A non-SUCCEEDED terminal state yields a
// *QueryFailure; exceeding MaxWait while non-terminal yields a
// *QueryTimeout and leaves the engine-side execution running.
func (e *Executor) Execute(ctx context.Context, statement string) ([]Record, error) {
	handle, err := e.submit(ctx, statement)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, err := e.waitForTerminal(ctx, handle)
	if err != nil {
		return nil, err
	}

	state := aws.StringValue(status.State)
	observability.ObserveQuery(state, time.Since(start))
	if state != athena.QueryExecutionStateSucceeded {
		failure := &QueryFailure{State: state, Reason: aws.StringValue(status.StateChangeReason)}
		e.log().WarnContext(ctx, "query execution failed",
			slog.String("handle", handle),
			slog.String("state", state),
			slog.String("reason", failure.Reason),
		)
		return nil, failure
	}

	records, err := e.fetchAll(ctx, handle)
	if err != nil {
		return nil, err
	}
	e.log().DebugContext(ctx, "query execution succeeded",
		slog.String("handle", handle),
		slog.Int("records", len(records)),
		slog.String("duration", time.Since(start).String()),
	)
	return records, nil
}

func (e *Executor) submit(ctx context.Context, statement string) (string, error) {
	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(statement),
		QueryExecutionContext: &athena.QueryExecutionContext{
			Database: aws.String(e.Database),
		},
	}
	if e.Workgroup != "" {
		input.WorkGroup = aws.String(e.Workgroup)
	}
	if e.OutputLocation != "" {
		input.ResultConfiguration = &athena.ResultConfiguration{
			OutputLocation: aws.String(e.OutputLocation),
		}
	}

	out, err := e.API.StartQueryExecutionWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("start query execution: %w", err)
	}
	handle := aws.StringValue(out.QueryExecutionId)
	if handle == "" {
		return "", fmt.Errorf("engine returned an empty execution id")
	}
	return handle, nil
}

func (e *Executor) waitForTerminal(ctx context.Context, handle string) (*athena.QueryExecutionStatus, error) {
	waitCtx := ctx
	if e.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, e.MaxWait)
		defer cancel()
	}

	interval := e.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	var status *athena.QueryExecutionStatus
	poll := func() error {
		out, err := e.API.GetQueryExecutionWithContext(waitCtx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(handle),
		})
		if err != nil {
			// The SDK reports a canceled call as its own error type
			// that hides the context cause, so the deadline has to be
			// read off the context directly.
			if waitCtx.Err() != nil {
				return backoff.Permanent(waitCtx.Err())
			}
			return backoff.Permanent(fmt.Errorf("get query execution: %w", err))
		}
		if out.QueryExecution == nil || out.QueryExecution.Status == nil {
			return backoff.Permanent(fmt.Errorf("engine returned an execution without status"))
		}
		status = out.QueryExecution.Status
		switch aws.StringValue(status.State) {
		case athena.QueryExecutionStateSucceeded,
			athena.QueryExecutionStateFailed,
			athena.QueryExecutionStateCancelled:
			return nil
		default:
			return errExecutionPending
		}
	}

	err := backoff.Retry(poll, backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// The ceiling elapsed, not the caller's context. The
			// execution keeps running engine-side.
			observability.ObserveQuery("TIMEOUT", e.MaxWait)
			return nil, &QueryTimeout{Elapsed: e.MaxWait}
		}
		return nil, err
	}
	return status, nil
}

// fetchAll pages through the result grid following the continuation
// token. The header row is consumed once, from the first page only.
func (e *Executor) fetchAll(ctx context.Context, handle string) ([]Record, error) {
	records := make([]Record, 0)
	var header []string
	headerConsumed := false
	var token *string

	for {
		input := &athena.GetQueryResultsInput{QueryExecutionId: aws.String(handle)}
		if token != nil {
			input.NextToken = token
		}
		out, err := e.API.GetQueryResultsWithContext(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("get query results: %w", err)
		}

		var rows []*athena.Row
		if out.ResultSet != nil {
			rows = out.ResultSet.Rows
		}
		if len(rows) > 0 && !headerConsumed {
			header = headerFromRow(rows[0])
			headerConsumed = true
			rows = rows[1:]
		}
		for _, row := range rows {
			records = append(records, recordFromRow(header, row))
		}

		if out.NextToken == nil || aws.StringValue(out.NextToken) == "" {
			break
		}
		token = out.NextToken
	}
	return records, nil
}

func (e *Executor) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
