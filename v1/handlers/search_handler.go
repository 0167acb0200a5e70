package handlers

import (
	"net/http"
	"strconv"

	"github.com/memberdir/directory-backend/shared/utils"
)

const defaultSearchLimit = 10

// handleDirectorySearch handles GET /api/v1/directory/search
func (h *V1Handler) handleDirectorySearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	members, err := h.memberService.Search(query, parseLimit(r, defaultSearchLimit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, members)
}

// handleAutocomplete handles GET /api/v1/directory/search/autocomplete
func (h *V1Handler) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	entries, err := h.memberService.Autocomplete(query, parseLimit(r, defaultSearchLimit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, entries)
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
