package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskhub/internal/platform/logger"
	"github.com/mwhitlock/taskhub/internal/store"
)

// SessionService manages the set of live bearer tokens per user. A token is
// valid only while its digest remains in the user's session set, so a
// validly-signed but revoked token fails Resolve.
type SessionService interface {
	// Issue signs a new token for the user and appends it to their session set.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)

	// Revoke removes exactly the presented token from the user's session set.
	Revoke(ctx context.Context, userID uuid.UUID, token string) error

	// RevokeAll clears the user's entire session set.
	RevokeAll(ctx context.Context, userID uuid.UUID) error

	// Resolve verifies the token's signature and its membership in the
	// owning user's session set, returning the user ID it is bound to.
	// Returns ErrInvalidToken on any failure.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// sessionService implements SessionService over a TokenService and a
// SessionStore.
type sessionService struct {
	tokens   TokenService
	sessions store.SessionStore
}

var _ SessionService = (*sessionService)(nil)

// NewSessionService creates a SessionService backed by the given token
// signer and session store.
func NewSessionService(tokens TokenService, sessions store.SessionStore) SessionService {
	return &sessionService{
		tokens:   tokens,
		sessions: sessions,
	}
}

// DigestToken returns the hex SHA-256 digest under which a token is stored.
// Only digests are persisted so a database dump cannot replay live sessions.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Issue implements SessionService.Issue.
func (s *sessionService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.tokens.Sign(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Add(ctx, userID, DigestToken(token)); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	return token, nil
}

// Revoke implements SessionService.Revoke. A digest that is already gone is
// treated as revoked; storage failures are surfaced to the caller rather
// than masked as an authentication problem.
func (s *sessionService) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	err := s.sessions.Remove(ctx, userID, DigestToken(token))
	if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAll implements SessionService.RevokeAll.
func (s *sessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	removed, err := s.sessions.RemoveAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	logger.FromContext(ctx).Debug("revoked all sessions",
		"user_id", userID, "count", removed)
	return nil
}

// Resolve implements SessionService.Resolve.
func (s *sessionService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.tokens.Parse(ctx, token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	live, err := s.sessions.Exists(ctx, claims.UserID, DigestToken(token))
	if err != nil {
		logger.FromContext(ctx).Error("failed to check session set",
			"error", err, "user_id", claims.UserID)
		return uuid.Nil, fmt.Errorf("failed to check session: %w", err)
	}
	if !live {
		// Validly signed but revoked.
		return uuid.Nil, ErrInvalidToken
	}

	return claims.UserID, nil
}
