package api

import (
	"encoding/json"
	"net/http"
)

type chatRequest struct {
	Message *string `json:"message"`
}

func handleAgentChat(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Analyst == nil {
		writeError(w, http.StatusNotImplemented, "analyst is not configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == nil {
		writeError(w, http.StatusBadRequest, "message must be a string")
		return
	}

	answer, err := deps.Analyst.Ask(r.Context(), *req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": answer})
}
