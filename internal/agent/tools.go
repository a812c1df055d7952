package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/willahq/datalake-admin/internal/datalake"
	"github.com/willahq/datalake-admin/internal/directory"
)

// Toolset wires the analyst's tools to the engine and the directory.
type Toolset struct {
	Runner    datalake.Runner
	Database  string
	Directory *directory.Directory
}

func (t *Toolset) Tools() []Tool {
	return []Tool{
		{
			Spec: FunctionSpec{
				Name:        "query_athena_sql",
				Description: "Run an arbitrary read-only SQL query against the data lake and return the results.",
				Parameters: objectSchema(map[string]any{
					"query": map[string]any{"type": "string", "description": "A single SELECT statement."},
				}, "query"),
			},
			Invoke: t.querySQL,
		},
		{
			Spec: FunctionSpec{
				Name:        "list_athena_tables",
				Description: "List all available tables in the data lake database.",
				Parameters:  objectSchema(map[string]any{}),
			},
			Invoke: t.listTables,
		},
		{
			Spec: FunctionSpec{
				Name:        "describe_athena_table",
				Description: "Describe the columns and types for a given data lake table.",
				Parameters: objectSchema(map[string]any{
					"table_name": map[string]any{"type": "string"},
				}, "table_name"),
			},
			Invoke: t.describeTable,
		},
		{
			Spec: FunctionSpec{
				Name:        "get_cognito_user_id_by_email",
				Description: "Return the directory userId (Username) for a given email address.",
				Parameters: objectSchema(map[string]any{
					"email": map[string]any{"type": "string"},
				}, "email"),
			},
			Invoke: t.lookupByEmail,
		},
		{
			Spec: FunctionSpec{
				Name:        "get_cognito_user_info_by_sub",
				Description: "Return a user's firstName, lastName and email for a given directory sub (userId).",
				Parameters: objectSchema(map[string]any{
					"sub": map[string]any{"type": "string"},
				}, "sub"),
			},
			Invoke: t.lookupBySub,
		},
	}
}

func (t *Toolset) querySQL(ctx context.Context, arguments string) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %s", err)
	}
	records, err := t.Runner.Execute(ctx, args.Query)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	return toJSON(records)
}

func (t *Toolset) listTables(ctx context.Context, _ string) string {
	statement := fmt.Sprintf(
		"SELECT table_name FROM information_schema.tables "+
			"WHERE table_schema = '%s' AND table_name LIKE 'latest_%%'",
		t.Database,
	)
	records, err := t.Runner.Execute(ctx, statement)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	return toJSON(records)
}

func (t *Toolset) describeTable(_ context.Context, arguments string) string {
	var args struct {
		TableName string `json:"table_name"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %s", err)
	}
	doc, ok := datalake.DescribeTable(args.TableName)
	if !ok {
		return fmt.Sprintf("Error: unknown table %q", args.TableName)
	}
	return toJSON(doc)
}

func (t *Toolset) lookupByEmail(ctx context.Context, arguments string) string {
	var args struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %s", err)
	}
	if t.Directory == nil {
		return toJSON(map[string]string{"error": "directory is not configured"})
	}
	identity, err := t.Directory.LookupByEmail(ctx, args.Email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return toJSON(map[string]string{"error": fmt.Sprintf("No user found for email %s", args.Email)})
		}
		return toJSON(map[string]string{"error": err.Error()})
	}
	return toJSON(identity)
}

func (t *Toolset) lookupBySub(ctx context.Context, arguments string) string {
	var args struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return fmt.Sprintf("Error: invalid arguments: %s", err)
	}
	if t.Directory == nil {
		return toJSON(map[string]string{"error": "directory is not configured"})
	}
	profile, err := t.Directory.LookupBySub(ctx, args.Sub)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return toJSON(map[string]string{"error": fmt.Sprintf("No user found for sub %s", args.Sub)})
		}
		return toJSON(map[string]string{"error": err.Error()})
	}
	return toJSON(profile)
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func toJSON(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("Error: encode tool result: %s", err)
	}
	return string(encoded)
}
