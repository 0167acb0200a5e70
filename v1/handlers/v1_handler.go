package handlers

import (
	"net/http"

	"github.com/memberdir/directory-backend/shared/utils"
	"github.com/memberdir/directory-backend/v1/middleware"
	"github.com/memberdir/directory-backend/v1/services"
)

// V1Handler handles all V1 API routes
type V1Handler struct {
	memberService *services.MemberService
	userService   *services.UserService
	emailService  *services.EmailService
	verifier      *middleware.JWTVerifier
}

// NewV1Handler creates a new V1 handler
func NewV1Handler(memberService *services.MemberService, userService *services.UserService, emailService *services.EmailService, verifier *middleware.JWTVerifier) *V1Handler {
	return &V1Handler{
		memberService: memberService,
		userService:   userService,
		emailService:  emailService,
		verifier:      verifier,
	}
}

// SetupV1Routes configures all V1 API routes
func (h *V1Handler) SetupV1Routes(mux *http.ServeMux) {
	protect := func(handler http.HandlerFunc) http.Handler {
		return utils.PanicRecoveryMiddleware(h.verifier.RequireAuth(handler))
	}
	protectAdmin := func(handler http.HandlerFunc) http.Handler {
		return utils.PanicRecoveryMiddleware(h.verifier.RequireAuth(middleware.RequireRole(middleware.RoleAdmin, handler)))
	}

	// User routes (admin only)
	mux.Handle("/api/v1/users", protectAdmin(h.handleUsers))
	mux.Handle("/api/v1/users/", protectAdmin(h.handleUsers))

	// Member routes (admin only)
	mux.Handle("/api/v1/members", protectAdmin(h.handleMembers))
	mux.Handle("/api/v1/members/", protectAdmin(h.handleMembers))

	// Directory search routes (any authenticated user)
	mux.Handle("/api/v1/directory/search", protect(h.handleDirectorySearch))
	mux.Handle("/api/v1/directory/search/autocomplete", protect(h.handleAutocomplete))

	// Campaign reporting routes (admin only)
	mux.Handle("/api/v1/campaigns/", protectAdmin(h.handleCampaigns))

	// Webhook administration routes (admin only)
	mux.Handle("/api/v1/webhooks", protectAdmin(h.handleWebhookAdmin))
	mux.Handle("/api/v1/webhooks/", protectAdmin(h.handleWebhookAdmin))

	// Inbound vendor webhook. Public, authenticated by path token.
	mux.Handle("/api/v1/webhooks/email/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleEmailWebhook)))
}
