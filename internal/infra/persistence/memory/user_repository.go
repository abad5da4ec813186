// Package memory provides in-memory implementations of the repository
// interfaces. Anything satisfying the repository contracts is substitutable
// for the Postgres implementations; this one backs the end-to-end tests and
// local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"

	"github.com/google/uuid"
)

// userRepository implements repository.UserRepository over a mutex-guarded map.
type userRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*entity.User
}

// NewUserRepository is the constructor for the in-memory user repository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		users: make(map[uuid.UUID]*entity.User),
	}
}

func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, user := range repo.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
		}
	}

	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now

	repo.users[user.ID] = cloneUser(user)

	return nil
}

func (repo *userRepository) UpdateRefreshToken(_ context.Context, id uuid.UUID, token *string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	if token != nil {
		value := *token
		user.RefreshToken = &value
	} else {
		user.RefreshToken = nil
	}
	user.UpdatedAt = time.Now()

	return nil
}

func (repo *userRepository) ListAll(_ context.Context) ([]*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	users := make([]*entity.User, 0, len(repo.users))
	for _, user := range repo.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}

// cloneUser copies the record so callers cannot mutate the stored state.
func cloneUser(user *entity.User) *entity.User {
	clone := *user
	if user.RefreshToken != nil {
		token := *user.RefreshToken
		clone.RefreshToken = &token
	}

	return &clone
}
