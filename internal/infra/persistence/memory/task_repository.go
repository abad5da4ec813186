// Package memory provides in-memory implementations of the repository interfaces.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"

	"github.com/google/uuid"
)

// taskRepository implements repository.TaskRepository over a mutex-guarded map.
type taskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*entity.Task
}

// NewTaskRepository is the constructor for the in-memory task repository.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{
		tasks: make(map[uuid.UUID]*entity.Task),
	}
}

func (repo *taskRepository) Create(_ context.Context, task *entity.Task) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	now := time.Now()
	task.ID = uuid.New()
	task.CreatedAt = now
	task.UpdatedAt = now

	clone := *task
	repo.tasks[task.ID] = &clone

	return nil
}

func (repo *taskRepository) FindByID(_ context.Context, id, ownerID uuid.UUID) (*entity.Task, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	task, ok := repo.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, repository.ErrTaskNotFound
	}

	clone := *task

	return &clone, nil
}

func (repo *taskRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Task, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	tasks := make([]*entity.Task, 0)
	for _, task := range repo.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		clone := *task
		tasks = append(tasks, &clone)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

func (repo *taskRepository) Update(_ context.Context, task *entity.Task) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	existing, ok := repo.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return repository.ErrTaskNotFound
	}

	existing.Title = task.Title
	existing.Description = task.Description
	existing.Completed = task.Completed
	existing.UpdatedAt = time.Now()
	task.UpdatedAt = existing.UpdatedAt
	task.CreatedAt = existing.CreatedAt

	return nil
}

func (repo *taskRepository) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	task, ok := repo.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return repository.ErrTaskNotFound
	}

	delete(repo.tasks, id)

	return nil
}
