package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/amanuelmandefro3/amr-blog/internal/auth"
	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	"github.com/amanuelmandefro3/amr-blog/internal/repository"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
	pkgmiddleware "github.com/amanuelmandefro3/amr-blog/pkg/middleware"
)

type userContextKey struct{}

// userFromContext returns the full identity attached by the session guard.
func userFromContext(ctx context.Context) *domain.User {
	if u, ok := ctx.Value(userContextKey{}).(*domain.User); ok {
		return u
	}
	return nil
}

// extractToken pulls the access token from the cookie, falling back to the
// Authorization header for non-browser clients.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(accessCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}

	return ""
}

// RequireAuth guards a route group: it validates the access token and
// resolves the user against the store, so a deleted account is rejected even
// while its token is still cryptographically valid. The resolved identity is
// attached to the request context.
func RequireAuth(tokens *auth.TokenManager, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeAppError(w, apperrors.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) {
					// Expiry and malformation keep their codes but are
					// reported as 401 on guarded routes.
					writeJSON(w, http.StatusUnauthorized, response{
						Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
					})
					return
				}
				writeAppError(w, apperrors.Unauthorized("invalid access token"))
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				writeAppError(w, apperrors.Unauthorized("account no longer exists"))
				return
			}

			ctx := pkgmiddleware.ContextWithUserID(r.Context(), user.ID)
			ctx = context.WithValue(ctx, userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the viewer's identity when a valid access token is
// present, and lets the request through anonymously otherwise. Public read
// endpoints use it to record reads for authenticated viewers without turning
// away anonymous ones.
func OptionalAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := pkgmiddleware.ContextWithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	AllowedOrigins []string
	Environment    string
}

// CORS returns a middleware that sets Cross-Origin Resource Sharing headers.
// In development mode (or when AllowedOrigins contains "*"), a wildcard origin
// is used. Otherwise only the explicitly listed origins are allowed.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowWildcard := cfg.Environment == "development"
	originSet := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowWildcard = true
		}
		originSet[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowWildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" {
				if _, ok := originSet[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Set("Vary", "Origin")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Correlation-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
