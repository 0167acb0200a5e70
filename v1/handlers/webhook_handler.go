package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/memberdir/directory-backend/shared/utils"
)

// handleEmailWebhook handles POST /api/v1/webhooks/email/:token. The endpoint
// is public; the path token authenticates the caller. Mismatches answer 404
// so the endpoint is indistinguishable from an unknown path.
func (h *V1Handler) handleEmailWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	token := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/webhooks/email/"), "/")
	expected := h.emailService.WebhookToken()
	if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	body, err := utils.ReadRequestBody(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	results, err := h.emailService.ProcessWebhook(r.Context(), body)
	if err != nil {
		slog.Warn("Rejected webhook payload", "error", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, results)
}

// handleWebhookAdmin handles the webhook administration routes
func (h *V1Handler) handleWebhookAdmin(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/webhooks")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/webhooks and POST /api/v1/webhooks
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			utils.RespondWithSuccess(w, http.StatusOK, h.emailService.GetWebhooks(r.Context()))
		case http.MethodPost:
			webhookID, ok := h.emailService.CreateWebhook(r.Context())
			if !ok {
				utils.RespondWithError(w, http.StatusBadGateway, "Failed to register webhook")
				return
			}
			utils.RespondWithSuccess(w, http.StatusCreated, map[string]string{"webhookId": webhookID})
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Webhook ID is required")
		return
	}

	// Handle DELETE /api/v1/webhooks/:webhookId
	if len(parts) == 1 && r.Method == http.MethodDelete {
		if !h.emailService.DeleteWebhook(r.Context(), parts[0]) {
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to delete webhook")
			return
		}
		utils.RespondWithSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}
