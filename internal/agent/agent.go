// Package agent is the conversational analyst: a tool-calling loop over
// an OpenAI-compatible model, bridging the query engine and the user
// directory.
package agent

import (
	"context"
	"fmt"
	"log/slog"
)

const systemPrompt = `You are a careful data lake analyst. You are also an expert in the schema of the lake's tables.

Rules:
- Think step-by-step.
- Before querying the database, call the tool list_athena_tables to get a list of available tables.
- Before querying a table, call the tool describe_athena_table with the table name to get the data dictionary.
- When you need data, call the tool query_athena_sql with ONE SELECT query.
- Read-only only; no INSERT/UPDATE/DELETE/ALTER/DROP/CREATE/REPLACE/TRUNCATE.
- If asked for a user's information, call the tool get_cognito_user_info_by_sub with the user's sub (username).
- If the prompt includes a user's email address, call the tool get_cognito_user_id_by_email with the email address and then use the returned userId in the query.
- Limit to 5 rows of output unless the user explicitly asks otherwise.
- If the tool returns 'Error:', revise the SQL and try again.
- Prefer explicit column lists; avoid SELECT *.`

// Tool couples a function spec sent to the model with its local
// implementation. Invoke returns text for the model, never an error:
// failures come back as "Error: ..." so the model can revise and retry.
type Tool struct {
	Spec   FunctionSpec
	Invoke func(ctx context.Context, arguments string) string
}

type Agent struct {
	Client   ChatClient
	Tools    []Tool
	MaxSteps int
	Logger   *slog.Logger
}

func New(client ChatClient, tools []Tool, maxSteps int, logger *slog.Logger) *Agent {
	if maxSteps <= 0 {
		maxSteps = 8
	}
	return &Agent{Client: client, Tools: tools, MaxSteps: maxSteps, Logger: logger}
}

// Ask runs the analyst loop until the model answers in plain text or
// the step budget runs out.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	messages := []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: message},
	}
	specs := a.toolSpecs()

	for step := 0; step < a.MaxSteps; step++ {
		reply, err := a.Client.Complete(ctx, messages, specs)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		messages = append(messages, reply)

		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}
		for _, call := range reply.ToolCalls {
			output := a.invoke(ctx, call)
			messages = append(messages, ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    output,
			})
		}
	}
	return "", fmt.Errorf("analyst produced no answer within %d steps", a.MaxSteps)
}

func (a *Agent) invoke(ctx context.Context, call ToolCall) string {
	for _, tool := range a.Tools {
		if tool.Spec.Name != call.Function.Name {
			continue
		}
		if a.Logger != nil {
			a.Logger.DebugContext(ctx, "agent tool call", slog.String("tool", call.Function.Name))
		}
		return tool.Invoke(ctx, call.Function.Arguments)
	}
	return fmt.Sprintf("Error: unknown tool %q", call.Function.Name)
}

func (a *Agent) toolSpecs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(a.Tools))
	for _, tool := range a.Tools {
		specs = append(specs, ToolSpec{Type: "function", Function: tool.Spec})
	}
	return specs
}
