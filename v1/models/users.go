package models

import (
	"encoding/json"
	"time"
)

// User is an administrative account that can sign in to the portal
type User struct {
	UserID       string     `gorm:"primaryKey;column:user_id" json:"userId"`
	Username     string     `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"column:email" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	Roles        string     `gorm:"column:roles;default:'[]'" json:"-"`
	TotpSecret   *string    `gorm:"column:totp_secret" json:"-"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"lastLogin"`
	BaseModel
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// RoleList decodes the JSON-encoded roles column
func (u *User) RoleList() []string {
	var roles []string
	if err := json.Unmarshal([]byte(u.Roles), &roles); err != nil {
		return []string{}
	}
	return roles
}

// SetRoleList encodes the given roles into the roles column
func (u *User) SetRoleList(roles []string) {
	if roles == nil {
		roles = []string{}
	}
	encoded, err := json.Marshal(roles)
	if err != nil {
		return
	}
	u.Roles = string(encoded)
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

// TwoFactorEnabled reports whether a TOTP secret is provisioned
func (u *User) TwoFactorEnabled() bool {
	return u.TotpSecret != nil && *u.TotpSecret != ""
}
