package auth

import (
	"errors"
	"time"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "coursepanel"

// TokenManager issues and verifies HS256 session tokens signed with a shared secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager. ttl is the lifetime of issued tokens.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session token for the user
func (m *TokenManager) Issue(user *models.User) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}

	now := m.now()
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: user.Username,
		Role:     user.Role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyToken implements TokenVerifier for locally issued tokens
func (m *TokenManager) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{},
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close implements TokenVerifier
func (m *TokenManager) Close() error {
	return nil
}
