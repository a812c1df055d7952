// Package engine drives asynchronous query executions against an
// Athena-style SQL service: submit, poll to a terminal state, then page
// through the result grid and flatten it into records.
package engine

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/athena"
)

// API is the subset of the query service the executor needs. The
// production implementation is *athena.Athena; tests and the local
// duckdb engine provide their own.
type API interface {
	StartQueryExecutionWithContext(aws.Context, *athena.StartQueryExecutionInput, ...request.Option) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecutionWithContext(aws.Context, *athena.GetQueryExecutionInput, ...request.Option) (*athena.GetQueryExecutionOutput, error)
	GetQueryResultsWithContext(aws.Context, *athena.GetQueryResultsInput, ...request.Option) (*athena.GetQueryResultsOutput, error)
	GetWorkGroupWithContext(aws.Context, *athena.GetWorkGroupInput, ...request.Option) (*athena.GetWorkGroupOutput, error)
}

// NewAthenaAPI returns the managed-service client.
func NewAthenaAPI(region string) API {
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(region)))
	return athena.New(sess)
}

// Record maps column names to optional cell values. A nil value means the
// cell was absent, which is distinct from an empty string.
type Record map[string]*string

// QueryFailure reports a non-success terminal state. The engine is never
// retried automatically; callers decide whether to resubmit a revised
// statement.
type QueryFailure struct {
	State  string
	Reason string
}

func (e *QueryFailure) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("query execution failed with state %s", e.State)
	}
	return fmt.Sprintf("query execution failed with state %s: %s", e.State, e.Reason)
}

// QueryTimeout reports that the wait ceiling elapsed while the execution
// was still non-terminal. No cancellation is issued, so the engine-side
// outcome is unknown.
type QueryTimeout struct {
	Elapsed time.Duration
}

func (e *QueryTimeout) Error() string {
	return fmt.Sprintf("query execution still pending after %s; engine-side outcome unknown", e.Elapsed)
}
