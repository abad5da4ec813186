// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import (
	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// Claims is the identity payload carried inside a verified token.
// Email and Role are only present on access tokens; refresh tokens carry the
// account id alone.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
}

// TokenService defines the interface for minting and verifying the two bearer
// token classes. Access and refresh tokens are signed with separate secrets and
// carry independent expirations, so a leaked secret for one class cannot forge
// the other.
type TokenService interface {
	// GenerateAccessToken creates a short-lived signed credential embedding the
	// account id, email and role.
	GenerateAccessToken(userID uuid.UUID, email string, role entity.Role) (string, error)

	// GenerateRefreshToken creates a long-lived signed credential embedding the
	// account id only.
	GenerateRefreshToken(userID uuid.UUID) (string, error)

	// ValidateAccessToken checks signature and expiry against the access-token
	// secret and returns the embedded claims.
	ValidateAccessToken(token string) (*Claims, error)

	// ValidateRefreshToken checks signature and expiry against the
	// refresh-token secret and returns the embedded claims.
	ValidateRefreshToken(token string) (*Claims, error)
}
