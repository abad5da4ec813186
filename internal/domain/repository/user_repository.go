// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete
// implementation, so any storage engine can be substituted.
type UserRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new account. Email uniqueness is enforced here.
	Create(ctx context.Context, user *entity.User) error

	// UpdateRefreshToken overwrites the stored refresh token for the account.
	// Passing nil clears it.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error

	// ListAll retrieves every account, newest first.
	ListAll(ctx context.Context) ([]*entity.User, error)
}
