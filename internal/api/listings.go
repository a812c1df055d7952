package api

import (
	"errors"
	"net/http"

	"github.com/willahq/datalake-admin/internal/datalake"
)

// handleListSaves serves both strategies: a nextToken switches the
// request to keyset "load more" semantics, otherwise the offset window
// plus an overall total backs numeric pagination.
func handleListSaves(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Saves == nil {
		writeError(w, http.StatusNotImplemented, "saves listing is not configured")
		return
	}
	query := r.URL.Query()
	limit := datalake.LimitFromString(query.Get("limit"))

	if token := query.Get("nextToken"); token != "" {
		page, err := deps.Saves.Seek(r.Context(), limit, token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	offset := datalake.OffsetFromString(query.Get("offset"))
	page, err := deps.Saves.Window(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total := deps.Saves.Total(r.Context())
	page.TotalCount = &total
	writeJSON(w, http.StatusOK, page)
}

func handleGetSave(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Saves == nil {
		writeError(w, http.StatusNotImplemented, "saves listing is not configured")
		return
	}
	record, err := deps.Saves.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, datalake.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func handleListBoards(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Boards == nil {
		writeError(w, http.StatusNotImplemented, "boards listing is not configured")
		return
	}
	query := r.URL.Query()
	limit := datalake.LimitFromString(query.Get("limit"))
	offset := datalake.OffsetFromString(query.Get("offset"))

	page, err := deps.Boards.Window(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total := deps.Boards.Total(r.Context())
	page.TotalCount = &total
	writeJSON(w, http.StatusOK, page)
}
