package handlers

import (
	"net/http"
	"strings"

	"github.com/memberdir/directory-backend/shared/utils"
)

// handleCampaigns handles campaign reporting routes
func (h *V1Handler) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/campaigns")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle GET /api/v1/campaigns/:campaignId/summary
	if len(parts) == 2 && parts[1] == "summary" && r.Method == http.MethodGet {
		summary := h.emailService.GetCampaignSummary(r.Context(), parts[0])
		if summary == nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to fetch campaign summary")
			return
		}
		utils.RespondWithSuccess(w, http.StatusOK, summary)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}
