package usecase

import (
	"context"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
}

// UpdateTaskInput defines the full replacement state for a task.
type UpdateTaskInput struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Completed   bool
}

// TaskUsecase defines the interface for task business operations. Every
// operation is scoped to the owning account; a task belonging to another
// account behaves exactly like a missing one.
type TaskUsecase interface {
	CreateTask(ctx context.Context, input *CreateTaskInput) (*entity.Task, error)
	GetTask(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*entity.Task, error)
	UpdateTask(ctx context.Context, input *UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error
}
