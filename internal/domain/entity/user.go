// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account record of the system. It carries the email/password
// credential and the single currently-valid refresh token for the account.
type User struct {
	ID           uuid.UUID // The unique identifier for the account, assigned at creation.
	Email        string    // The account's login identifier. Unique across all accounts.
	Name         string    // Optional display name.
	PasswordHash string    // The bcrypt hash of the account's password. Never exposed outward.
	Role         Role      // The account's role tag, "user" unless promoted.
	RefreshToken *string   // The currently-valid refresh token. Nil until first login, overwritten on every login.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the account id/email/role triple resolved from a verified access
// token. It lives on the request context for exactly one request and is never
// persisted.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
