package api

import (
	"net/http"

	"github.com/willahq/datalake-admin/internal/datalake"
)

func handleListUsers(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Directory == nil {
		writeError(w, http.StatusNotImplemented, "directory is not configured")
		return
	}
	query := r.URL.Query()
	limit := datalake.LimitFromString(query.Get("limit"))
	token := query.Get("nextToken")
	if token == "" {
		token = query.Get("paginationToken")
	}

	page, err := deps.Directory.ListUsers(r.Context(), limit, token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page)
}
