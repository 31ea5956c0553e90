// Package auth implements account signup, login, and session token issuance.
// Token verification lives in shared/auth so every module can use it without
// importing this package.
package auth

import (
	"time"

	"github.com/lineage-health/platform/internal/shared/types"
)

// Account is a credentialed user account. The profile module owns the
// demographic fields on the same row.
type Account struct {
	ID                  types.ID
	Email               string
	PasswordHash        string
	Name                string
	OnboardingCompleted bool
	CreatedAt           time.Time
}

// SignupRequest creates a new account
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued session token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID                  types.ID `json:"id"`
	Email               string   `json:"email"`
	Name                string   `json:"name"`
	OnboardingCompleted bool     `json:"onboarding_completed"`
}
