// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// taskRepository implements the repository.TaskRepository interface using GORM.
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

// Create persists a new task.
func (repo *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	taskM := fromTaskDomain(task)

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("task owner does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required task information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create task")
	}

	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt
	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// FindByID retrieves a single task by id, scoped to its owner. A task owned by
// another account is reported as not found.
func (repo *taskRepository) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error) {
	var taskM model.TaskModel

	err := repo.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&taskM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to find task by id")
	}

	return toTaskDomain(&taskM), nil
}

// FindByOwner retrieves all tasks belonging to an account, newest first.
func (repo *taskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Task, error) {
	var taskModels []model.TaskModel

	err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&taskModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find tasks by owner")
	}

	tasks := make([]*entity.Task, 0, len(taskModels))
	for i := range taskModels {
		tasks = append(tasks, toTaskDomain(&taskModels[i]))
	}

	return tasks, nil
}

// Update modifies an existing task, scoped to its owner.
func (repo *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("id = ? AND owner_id = ?", task.ID, task.OwnerID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task by id, scoped to its owner.
func (repo *taskRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.TaskModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toTaskDomain converts a GORM TaskModel to a domain Task entity.
func toTaskDomain(data *model.TaskModel) *entity.Task {
	if data == nil {
		return nil
	}

	return &entity.Task{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromTaskDomain converts a domain Task entity to a GORM TaskModel for persistence.
func fromTaskDomain(data *entity.Task) *model.TaskModel {
	if data == nil {
		return nil
	}

	return &model.TaskModel{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
	}
}
