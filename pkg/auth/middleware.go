package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"tablebite/pkg/httpx"
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// VerifyFunc checks that a token's subject is still allowed in, e.g. not deleted.
type VerifyFunc func(ctx context.Context, p Principal) error

func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// Authenticate rejects requests without a valid bearer token and stores the
// principal in the request context.
func Authenticate(tokens *TokenManager, verify VerifyFunc) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			p, err := tokens.Parse(raw)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			if verify != nil {
				if err := verify(r.Context(), p); err != nil {
					slog.WarnContext(r.Context(), "principal verification failed",
						slog.Int64("user_id", p.UserID), slog.String("error", err.Error()))
					httpx.WriteError(w, http.StatusUnauthorized, "Not authorized, user not found")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func RequireRoles(roles ...Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			if !p.HasRole(roles...) {
				httpx.WriteError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
