// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when a task does not exist for the given id and
// owner. A task owned by a different account is indistinguishable from a
// missing one.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository defines the standard operations for task persistence. Every
// lookup is scoped by the owning account's id.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *entity.Task) error

	// FindByID retrieves a single task by id, scoped to its owner.
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error)

	// FindByOwner retrieves all tasks belonging to an account, newest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *entity.Task) error

	// Delete removes a task by id, scoped to its owner.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
