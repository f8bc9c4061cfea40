package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fawkesdbs/roadguard/internal/http/response"
	"github.com/fawkesdbs/roadguard/internal/observability"
	"github.com/fawkesdbs/roadguard/internal/supabase"
)

type contextKey string

const identityContextKey contextKey = "identity"

// TokenVerifier validates a bearer token and returns the identity it belongs
// to. Implemented by *supabase.Client.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*supabase.Identity, error)
}

// AuthMiddleware gates protected routes on a valid bearer token. The source
// label tags token validation metrics with how verification happens, "local"
// or "remote".
func AuthMiddleware(verifier TokenVerifier, source string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A verifier fault must never let a request through; it is
			// converted to a generic 401.
			defer func() {
				if rec := recover(); rec != nil {
					observability.Audit(r, "auth.token.panic", "panic", rec)
					observability.RecordAccessTokenValidation(r.Context(), "panic", source)
					response.Reject(w, r, http.StatusUnauthorized, "Authentication failed")
				}
			}()

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				observability.RecordAccessTokenValidation(r.Context(), "missing", source)
				response.Reject(w, r, http.StatusUnauthorized, "Authorization token required")
				return
			}
			token := strings.TrimSpace(auth[len("Bearer "):])
			if token == "" {
				observability.RecordAccessTokenValidation(r.Context(), "missing", source)
				response.Reject(w, r, http.StatusUnauthorized, "Authorization token required")
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				observability.Audit(r, "auth.token.rejected", "error", err)
				observability.RecordAccessTokenValidation(r.Context(), "invalid", source)
				// Store rejections carry the platform's own message; anything
				// else stays generic.
				msg := "Invalid token"
				var storeErr *supabase.Error
				if errors.As(err, &storeErr) && storeErr.Message != "" {
					msg = storeErr.Message
				}
				response.Reject(w, r, http.StatusUnauthorized, msg)
				return
			}
			if identity == nil || identity.ID == "" {
				observability.Audit(r, "auth.token.rejected")
				observability.RecordAccessTokenValidation(r.Context(), "invalid", source)
				response.Reject(w, r, http.StatusUnauthorized, "User not found for this token")
				return
			}

			observability.RecordAccessTokenValidation(r.Context(), "valid", source)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity *supabase.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (*supabase.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*supabase.Identity)
	return id, ok
}
