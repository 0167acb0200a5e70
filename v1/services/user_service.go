package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/memberdir/directory-backend/v1/models"
)

// ErrUserNotFound is returned when a user lookup matches no record
var ErrUserNotFound = errors.New("user not found")

// UserService handles administrative account operations
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser creates an administrative account. The password is stored as a
// bcrypt hash.
func (s *UserService) CreateUser(req models.CreateUserRequest) (*models.User, error) {
	if req.Username == "" {
		return nil, errors.New("username is required")
	}
	if req.Password == "" {
		return nil, errors.New("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		UserID:       "usr_" + uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	user.SetRoleList(req.Roles)

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("Created user", "userId", user.UserID, "username", user.Username)
	return &user, nil
}

// GetUser fetches a user by ID
func (s *UserService) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUsers returns all administrative accounts
func (s *UserService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of the request. A non-empty password
// replaces the stored hash.
func (s *UserService) UpdateUser(userID string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != "" {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Roles != nil {
		user.SetRoleList(*req.Roles)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("Updated user", "userId", user.UserID)
	return user, nil
}

// DeleteUser removes an administrative account
func (s *UserService) DeleteUser(userID string) error {
	result := s.db.Delete(&models.User{}, "user_id = ?", userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	slog.Info("Deleted user", "userId", userID)
	return nil
}

// DisableTwoFactor clears the user's TOTP secret
func (s *UserService) DisableTwoFactor(userID string) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	user.TotpSecret = nil
	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to disable two-factor: %w", err)
	}

	slog.Warn("Disabled two-factor authentication", "userId", user.UserID, "username", user.Username)
	return user, nil
}

// VerifyPassword checks a candidate password against the stored hash
func (s *UserService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// ToUserResponse converts a User to its outward representation
func ToUserResponse(user *models.User) models.UserResponse {
	resp := models.UserResponse{
		UserID:           user.UserID,
		Username:         user.Username,
		Email:            user.Email,
		Roles:            user.RoleList(),
		TwoFactorEnabled: user.TwoFactorEnabled(),
	}
	if user.LastLogin != nil {
		formatted := user.LastLogin.Format("2006-01-02T15:04:05Z07:00")
		resp.LastLogin = &formatted
	}
	return resp
}
