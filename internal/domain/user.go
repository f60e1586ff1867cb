package domain

import (
	"time"
)

// User represents a registered account.
//
// The three token hash fields hold SHA-256 digests of the JWTs most recently
// issued to this user, one slot per purpose. Presenting a token whose digest
// no longer matches the stored slot fails, which makes verification and reset
// tokens single use and limits each user to one live refresh token.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`

	RefreshTokenHash      string `json:"-"`
	VerificationTokenHash string `json:"-"`
	ResetTokenHash        string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenPair holds an access and refresh token pair issued at login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
