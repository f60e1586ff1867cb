package middleware

import (
	"context"
)

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// ContextWithUserID stores the authenticated user's ID in the context.
// The session guard calls this after resolving the access token.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user's ID from the request
// context. Returns "" when the request is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
