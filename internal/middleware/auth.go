package middleware

import (
	"net/http"
	"strings"

	"prospekt/internal/auth"
	"prospekt/internal/httputil"
)

// skipAuth lists path prefixes served without a bearer token: health
// checks and previously rendered static artifacts (artifact paths are
// already unguessable run-scoped locations).
var skipAuth = []string{"/health", "/files/"}

// Auth verifies the Authorization bearer token on every request and
// injects the verified user identity into the request context.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipAuth {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
