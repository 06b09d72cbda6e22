package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	JTI    string
}

// AccessTokenClaims represents the typed JWT presented by storefront clients.
// The identity provider sets the user either as user_id or as the subject.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the authenticated user id.
func (c *AccessTokenClaims) Principal() (uuid.UUID, bool) {
	if c == nil {
		return uuid.Nil, false
	}
	if c.UserID != uuid.Nil {
		return c.UserID, true
	}
	if c.Subject == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
