package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memberdir/directory-backend/shared/utils"
)

type contextKey string

const authenticatedUserKey contextKey = "authenticatedUser"

// RoleAdmin marks accounts that may manage users, members and webhooks
const RoleAdmin = "admin"

// AuthenticatedUser is the identity carried through request context after
// token verification
type AuthenticatedUser struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole reports whether the authenticated user carries the given role
func (u *AuthenticatedUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// portalClaims are the claims this service issues and verifies
type portalClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 bearer tokens issued for the portal
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier with the given signing secret
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates a bearer token, returning the identity it carries
func (v *JWTVerifier) Verify(tokenString string) (*AuthenticatedUser, error) {
	claims := &portalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return &AuthenticatedUser{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user in the request context.
func (v *JWTVerifier) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or malformed authorization header")
			return
		}

		user, err := v.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			slog.Debug("Token verification failed", "error", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), authenticatedUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated requests lacking the given role
func RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.HasRole(role) {
			utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user stored by RequireAuth, or nil
func UserFromContext(ctx context.Context) *AuthenticatedUser {
	user, _ := ctx.Value(authenticatedUserKey).(*AuthenticatedUser)
	return user
}
