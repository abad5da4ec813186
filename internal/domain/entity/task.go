// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item owned by exactly one account. Every operation on
// a task is scoped to its owner; other accounts cannot see it.
type Task struct {
	ID          uuid.UUID // The unique identifier for the task.
	OwnerID     uuid.UUID // Links the task to the account that created it.
	Title       string    // Short summary of the task. Required.
	Description string    // Optional free-form detail.
	Completed   bool      // Whether the task has been marked done.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
