package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/memberdir/directory-backend/shared/utils"
	"github.com/memberdir/directory-backend/v1/models"
	"github.com/memberdir/directory-backend/v1/services"
)

// handleMembers handles member-related routes
func (h *V1Handler) handleMembers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/members")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/members and POST /api/v1/members
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.getAllMembers(w, r)
		case http.MethodPost:
			h.createMember(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Member ID is required")
		return
	}

	memberID := parts[0]

	// Handle base member endpoint: GET/PUT/DELETE /api/v1/members/:memberId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getMember(w, r, memberID)
		case http.MethodPut:
			h.updateMember(w, r, memberID)
		case http.MethodDelete:
			h.deleteMember(w, r, memberID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Handle subscription views: GET /api/v1/members/:memberId/subscription[-history]
	if len(parts) == 2 && r.Method == http.MethodGet {
		switch parts[1] {
		case "subscription":
			h.getMemberSubscription(w, r, memberID)
			return
		case "subscription-history":
			h.getMemberSubscriptionHistory(w, r, memberID)
			return
		}
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) getAllMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.GetMembers()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list members")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, members)
}

func (h *V1Handler) createMember(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMemberRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberService.CreateMember(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create member")
		return
	}

	if h.emailService.IsConfigured() {
		h.emailService.SubscribeMember(r.Context(), member, false)
	}

	utils.RespondWithSuccess(w, http.StatusCreated, member)
}

func (h *V1Handler) getMember(w http.ResponseWriter, r *http.Request, memberID string) {
	member, err := h.memberService.GetMember(memberID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get member")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, member)
}

func (h *V1Handler) updateMember(w http.ResponseWriter, r *http.Request, memberID string) {
	var req models.UpdateMemberRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Capture the email the vendor currently has on file before mutating
	previousEmail := ""
	if existing, err := h.memberService.GetMember(memberID); err == nil {
		previousEmail = existing.PrimaryEmailValue()
	}

	member, err := h.memberService.UpdateMember(memberID, req)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update member")
		return
	}

	if h.emailService.IsConfigured() {
		if previousEmail == "" {
			h.emailService.SubscribeMember(r.Context(), member, false)
		} else {
			h.emailService.UpdateMember(r.Context(), previousEmail, member)
		}
	}

	utils.RespondWithSuccess(w, http.StatusOK, member)
}

func (h *V1Handler) deleteMember(w http.ResponseWriter, r *http.Request, memberID string) {
	member, err := h.memberService.GetMember(memberID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get member")
		return
	}

	if h.emailService.IsConfigured() {
		h.emailService.DeleteMember(r.Context(), member)
	}

	if err := h.memberService.DeleteMember(memberID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete member")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *V1Handler) getMemberSubscription(w http.ResponseWriter, r *http.Request, memberID string) {
	member, err := h.memberService.GetMember(memberID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get member")
		return
	}

	detail := h.emailService.GetMemberSubscription(r.Context(), member)
	if detail == nil {
		utils.RespondWithSuccess(w, http.StatusOK, map[string]interface{}{})
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, detail)
}

func (h *V1Handler) getMemberSubscriptionHistory(w http.ResponseWriter, r *http.Request, memberID string) {
	member, err := h.memberService.GetMember(memberID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get member")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, h.emailService.GetMemberSubscriptionHistory(r.Context(), member))
}
