package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/userhubapp/userhub-backend/pkg/enums"
)

// TokenUse distinguishes the two halves of an issued token pair.
type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	UserID    uuid.UUID
	Role      enums.UserRole
	SessionID string
}

// Claims represents the typed JWT issued to clients. Access and refresh
// tokens share the session identifier as jti and differ by token_use.
type Claims struct {
	UserID   uuid.UUID      `json:"user_id"`
	Role     enums.UserRole `json:"role"`
	TokenUse TokenUse       `json:"token_use"`
	jwt.RegisteredClaims
}

// SessionID returns the session identifier carried in jti.
func (c *Claims) SessionID() string {
	return c.ID
}
