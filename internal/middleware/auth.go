package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"coursepanel/internal/auth"
	"coursepanel/internal/httputil"
)

// PublicPath reports whether a request may pass without a token
type PublicPath func(r *http.Request) bool

// AuthMiddleware verifies the bearer token on every request not matched by public.
// Verified claims are stored in the request context.
func AuthMiddleware(verifier auth.TokenVerifier, public PublicPath, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || public(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

// OptionalAuth attaches claims when a valid bearer token is present and never rejects.
// Used when authentication is disabled so /api/auth/me still resolves a caller.
func OptionalAuth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if claims, err := verifier.VerifyToken(token); err == nil {
					r = httputil.WithClaims(r, claims)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PublicPaths matches exact "METHOD /path" patterns and everything outside /api/
func PublicPaths(patterns ...string) PublicPath {
	allowed := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		allowed[p] = struct{}{}
	}
	return func(r *http.Request) bool {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			return true
		}
		_, ok := allowed[r.Method+" "+r.URL.Path]
		return ok
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
