package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type socketEvent struct {
	RouteKey     string          `json:"routeKey"`
	ConnectionID string          `json:"connectionId"`
	Body         json.RawMessage `json:"body"`
}

type socketChatBody struct {
	Message *string `json:"message"`
}

// handleSocketEvent acknowledges the event immediately; the analyst
// runs on the queue and the reply travels over the callback channel,
// never over this response.
func handleSocketEvent(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var event socketEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	switch event.RouteKey {
	case "$connect", "$disconnect":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if deps.Analyst == nil || deps.Runner == nil || deps.Queue == nil || deps.Channel == nil {
		writeError(w, http.StatusNotImplemented, "chat over socket is not configured")
		return
	}
	if strings.TrimSpace(event.ConnectionID) == "" {
		writeError(w, http.StatusBadRequest, "connectionId is required")
		return
	}

	var body socketChatBody
	if err := json.Unmarshal(event.Body, &body); err != nil || body.Message == nil {
		writeError(w, http.StatusBadRequest, "body.message must be a string")
		return
	}

	message := *body.Message
	connectionID := event.ConnectionID
	err := deps.Queue.Submit(func(ctx context.Context) {
		outcome := deps.Runner.Run(ctx, func(ctx context.Context) (string, error) {
			return deps.Analyst.Ask(ctx, message)
		}, deps.ChatTimeout)
		if err := deps.Runner.Deliver(ctx, deps.Channel, connectionID, outcome); err != nil {
			logger(deps).ErrorContext(ctx, "chat delivery failed",
				slog.String("connection_id", connectionID),
				slog.Any("error", err))
		}
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func logger(deps Dependencies) *slog.Logger {
	if deps.Logger != nil {
		return deps.Logger
	}
	return slog.Default()
}
