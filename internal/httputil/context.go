package httputil

import (
	"context"
	"net/http"

	"coursepanel/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey contextKey = "claims"
)

// WithClaims adds verified session claims to the request context
func WithClaims(r *http.Request, claims *models.SessionClaims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves session claims from context, nil if the request is anonymous
func GetClaims(r *http.Request) *models.SessionClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.SessionClaims)
	return claims
}

// GetUserID retrieves the authenticated user ID, returns empty string if not found
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}
