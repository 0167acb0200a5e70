package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/memberdir/directory-backend/v1/models"
)

func TestCreateUserHashesPassword(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser(models.CreateUserRequest{
		Username: "admin",
		Email:    "admin@example.org",
		Password: "s3cret",
		Roles:    []string{"admin"},
	})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.UserID, "usr_"))
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
	assert.True(t, user.HasRole("admin"))
}

func TestCreateUserValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser(models.CreateUserRequest{Password: "x"})
	assert.Error(t, err)

	_, err = svc.CreateUser(models.CreateUserRequest{Username: "admin"})
	assert.Error(t, err)
}

func TestUpdateUserReplacesPasswordWhenGiven(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser(models.CreateUserRequest{Username: "admin", Password: "old"})
	assert.NoError(t, err)
	originalHash := user.PasswordHash

	updated, err := svc.UpdateUser(user.UserID, models.UpdateUserRequest{Email: strPtr("new@example.org")})
	assert.NoError(t, err)
	assert.Equal(t, originalHash, updated.PasswordHash)
	assert.Equal(t, "new@example.org", updated.Email)

	newPassword := "new-pass"
	updated, err = svc.UpdateUser(user.UserID, models.UpdateUserRequest{Password: &newPassword})
	assert.NoError(t, err)
	assert.NotEqual(t, originalHash, updated.PasswordHash)
	assert.True(t, svc.VerifyPassword(updated, "new-pass"))
}

func TestDisableTwoFactor(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser(models.CreateUserRequest{Username: "admin", Password: "x"})
	assert.NoError(t, err)

	secret := "JBSWY3DPEHPK3PXP"
	user.TotpSecret = &secret
	assert.NoError(t, db.Save(user).Error)

	cleared, err := svc.DisableTwoFactor(user.UserID)
	assert.NoError(t, err)
	assert.False(t, cleared.TwoFactorEnabled())

	_, err = svc.DisableTwoFactor("usr_missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser(models.CreateUserRequest{Username: "admin", Password: "x"})
	assert.NoError(t, err)

	assert.NoError(t, svc.DeleteUser(user.UserID))
	assert.ErrorIs(t, svc.DeleteUser(user.UserID), ErrUserNotFound)
}

func TestToUserResponseOmitsSecrets(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"
	user := &models.User{
		UserID:       "usr_1",
		Username:     "admin",
		Email:        "admin@example.org",
		PasswordHash: "hash",
		TotpSecret:   &secret,
	}
	user.SetRoleList([]string{"admin", "member"})

	resp := ToUserResponse(user)
	assert.Equal(t, "usr_1", resp.UserID)
	assert.Equal(t, []string{"admin", "member"}, resp.Roles)
	assert.True(t, resp.TwoFactorEnabled)
	assert.Nil(t, resp.LastLogin)
}
