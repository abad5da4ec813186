package impl

import (
	"context"
	"log/slog"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	taskRepo repository.TaskRepository
	logger   *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TaskRepo repository.TaskRepository
	Logger   *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		taskRepo: params.TaskRepo,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateTask creates a task owned by the authenticated account.
func (srv *taskService) CreateTask(ctx context.Context, input *usecase.CreateTaskInput) (*entity.Task, error) {
	task := &entity.Task{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
	}

	if err := srv.taskRepo.Create(ctx, task); err != nil {
		srv.log(ctx).Error("Failed to create task", slog.Any("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create task")
	}
	srv.log(ctx).Debug("Task created", slog.Any("taskID", task.ID), slog.Any("ownerID", task.OwnerID))

	return task, nil
}

// GetTask retrieves a single task owned by the account.
func (srv *taskService) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("task not found")
		}

		return nil, errors.Wrap(err, "failed to get task")
	}

	return task, nil
}

// ListTasks retrieves all tasks owned by the account.
func (srv *taskService) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*entity.Task, error) {
	tasks, err := srv.taskRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

// UpdateTask replaces the mutable fields of a task owned by the account.
func (srv *taskService) UpdateTask(ctx context.Context, input *usecase.UpdateTaskInput) (*entity.Task, error) {
	task := &entity.Task{
		ID:          input.ID,
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}

	if err := srv.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("task not found")
		}
		srv.log(ctx).Error("Failed to update task", slog.Any("taskID", input.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update task")
	}

	updated, err := srv.taskRepo.FindByID(ctx, input.ID, input.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound.WrapMessage("task not found")
		}

		return nil, errors.Wrap(err, "failed to reload task after update")
	}

	return updated, nil
}

// DeleteTask removes a task owned by the account.
func (srv *taskService) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := srv.taskRepo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return domainerrors.ErrTaskNotFound.WrapMessage("task not found")
		}
		srv.log(ctx).Error("Failed to delete task", slog.Any("taskID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete task")
	}
	srv.log(ctx).Debug("Task deleted", slog.Any("taskID", id), slog.Any("ownerID", ownerID))

	return nil
}
