package middleware

import (
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

// UserContext tags the request logger with the authenticated user. It must run after auth.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := internal.PrincipalFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "userID", p.UserID, "auth_method", p.Method)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
