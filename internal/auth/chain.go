package auth

import (
	"errors"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
)

// ChainVerifier accepts a token if any of its verifiers does.
// Used when local logins and an external identity provider are both enabled.
type ChainVerifier struct {
	verifiers []TokenVerifier
}

// NewChainVerifier tries verifiers in the given order
func NewChainVerifier(verifiers ...TokenVerifier) *ChainVerifier {
	return &ChainVerifier{verifiers: verifiers}
}

// VerifyToken returns the claims from the first verifier that accepts the token
func (c *ChainVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	for _, verifier := range c.verifiers {
		claims, err := verifier.VerifyToken(tokenString)
		if err == nil {
			return claims, nil
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
	}
	return nil, domain.ErrUnauthorized
}

// Close closes every verifier and joins their errors
func (c *ChainVerifier) Close() error {
	var errs []error
	for _, verifier := range c.verifiers {
		if err := verifier.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
