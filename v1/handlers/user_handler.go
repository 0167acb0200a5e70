package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/memberdir/directory-backend/shared/utils"
	"github.com/memberdir/directory-backend/v1/models"
	"github.com/memberdir/directory-backend/v1/services"
)

// handleUsers handles administrative account routes
func (h *V1Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/users")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/users and POST /api/v1/users
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.getAllUsers(w, r)
		case http.MethodPost:
			h.createUser(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	userID := parts[0]

	// Handle base user endpoint: GET/PUT/DELETE /api/v1/users/:userId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getUser(w, r, userID)
		case http.MethodPut:
			h.updateUser(w, r, userID)
		case http.MethodDelete:
			h.deleteUser(w, r, userID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Handle POST /api/v1/users/:userId/disable-2fa
	if len(parts) == 2 && parts[1] == "disable-2fa" && r.Method == http.MethodPost {
		h.disableUserTwoFactor(w, r, userID)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) getAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetUsers()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, services.ToUserResponse(&users[i]))
	}
	utils.RespondWithSuccess(w, http.StatusOK, responses)
}

func (h *V1Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithSuccess(w, http.StatusCreated, services.ToUserResponse(user))
}

func (h *V1Handler) getUser(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.userService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, services.ToUserResponse(user))
}

func (h *V1Handler) updateUser(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.UpdateUserRequest
	if err := utils.ParseJSONRequest(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, services.ToUserResponse(user))
}

func (h *V1Handler) deleteUser(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.userService.DeleteUser(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *V1Handler) disableUserTwoFactor(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.userService.DisableTwoFactor(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to disable two-factor")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, services.ToUserResponse(user))
}
