// Package auth provides token signing, session management, and password
// hashing for the API's bearer-token authentication model.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService signs and parses the opaque session credentials. Tokens carry
// no expiry claim; their lifecycle is governed entirely by the session set
// (see SessionService).
type TokenService interface {
	// Sign creates a signed token bound to the given user.
	Sign(ctx context.Context, userID uuid.UUID) (string, error)

	// Parse verifies the token's signature and extracts its claims.
	// Returns ErrInvalidToken on any failure.
	Parse(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a session token.
type Claims struct {
	// UserID is the identity the token was issued for.
	UserID uuid.UUID `json:"uid"`

	// Standard registered JWT claims.
	Subject  string    `json:"sub,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`
	ID       string    `json:"jti,omitempty"`
}
