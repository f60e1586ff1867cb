package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
)

// Token purposes. Every token carries one, and validation rejects a token
// presented for the wrong purpose even when the signature checks out.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
	PurposeVerify  = "verify_email"
	PurposeReset   = "reset_password"
)

const issuer = "amr-blog"

// Claims represents the JWT claims carried by every token this service issues.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates the four token kinds. Refresh tokens use
// their own secret so a leaked access secret cannot mint long-lived sessions.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte

	accessExpiry  time.Duration
	refreshExpiry time.Duration
	verifyExpiry  time.Duration
	resetExpiry   time.Duration
}

// Options configures a TokenManager.
type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	VerifyExpiry  time.Duration
	ResetExpiry   time.Duration
}

// NewTokenManager creates a token manager from the given options.
func NewTokenManager(opts Options) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(opts.AccessSecret),
		refreshSecret: []byte(opts.RefreshSecret),
		accessExpiry:  opts.AccessExpiry,
		refreshExpiry: opts.RefreshExpiry,
		verifyExpiry:  opts.VerifyExpiry,
		resetExpiry:   opts.ResetExpiry,
	}
}

// GenerateAccessToken creates a short-lived token presented on every guarded request.
func (m *TokenManager) GenerateAccessToken(userID, email string) (string, error) {
	return m.sign(userID, email, PurposeAccess, m.accessSecret, m.accessExpiry)
}

// GenerateRefreshToken creates a long-lived token used only to mint new pairs.
func (m *TokenManager) GenerateRefreshToken(userID, email string) (string, error) {
	return m.sign(userID, email, PurposeRefresh, m.refreshSecret, m.refreshExpiry)
}

// GenerateVerificationToken creates the single-use token mailed after registration.
func (m *TokenManager) GenerateVerificationToken(userID, email string) (string, error) {
	return m.sign(userID, email, PurposeVerify, m.accessSecret, m.verifyExpiry)
}

// GenerateResetToken creates the single-use token mailed on a forgot-password request.
func (m *TokenManager) GenerateResetToken(userID, email string) (string, error) {
	return m.sign(userID, email, PurposeReset, m.accessSecret, m.resetExpiry)
}

func (m *TokenManager) sign(userID, email, purpose string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}

	return signed, nil
}

// ValidateAccessToken parses and validates an access token.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, PurposeAccess, m.accessSecret)
}

// ValidateRefreshToken parses and validates a refresh token.
func (m *TokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, PurposeRefresh, m.refreshSecret)
}

// ValidateVerificationToken parses and validates an email verification token.
func (m *TokenManager) ValidateVerificationToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, PurposeVerify, m.accessSecret)
}

// ValidateResetToken parses and validates a password reset token.
func (m *TokenManager) ValidateResetToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, PurposeReset, m.accessSecret)
}

// validate distinguishes expiry from every other failure so callers can
// surface TOKEN_EXPIRED instead of a generic INVALID_TOKEN.
func (m *TokenManager) validate(tokenString, purpose string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.TokenExpired("token has expired")
		}
		return nil, apperrors.InvalidToken("token is invalid")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.InvalidToken("token is invalid")
	}
	if claims.Purpose != purpose {
		return nil, apperrors.InvalidToken("token purpose mismatch")
	}

	return claims, nil
}

// HashToken returns the hex SHA-256 digest of a token for at-rest storage.
// The database never sees a usable token, only its digest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
