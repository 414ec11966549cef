package auth

import "coursepanel/internal/domain/models"

// TokenVerifier defines the interface for bearer token verification.
// The middleware stays agnostic to whether tokens are locally issued (HS256)
// or come from an external identity provider (JWKS).
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
