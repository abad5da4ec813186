// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the refresh token presented by the client.
type RefreshInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// AuthOutput returns the token pair issued after registration or login.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns the newly minted access token. The refresh token
// itself is deliberately absent: refreshing does not rotate it.
type RefreshOutput struct {
	AccessToken string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	Refresh(ctx context.Context, input *RefreshInput) (*RefreshOutput, error)
	Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
}
