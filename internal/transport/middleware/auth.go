package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (ctxutil.Principal, error)
}

// Auth resolves the bearer token into a request principal.
// Requests without an Authorization header pass through anonymously;
// route handlers decide whether anonymous access is acceptable.
// A present but invalid token is rejected with 401, an unapproved
// account with 403.
func Auth(gate authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			principal, err := gate.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
