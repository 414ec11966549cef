package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT claim set issued on login.
// Tokens from an external identity provider are parsed into the same shape.
type SessionClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, iat, ...)
	Username             string `json:"username,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}
