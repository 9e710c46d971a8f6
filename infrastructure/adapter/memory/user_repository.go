// Package memory holds map-backed repositories for STORAGE=memory and tests.
// They mirror the unique and foreign-key rules of the Postgres schema.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]entity.User
	// tokens is notified on delete, like ON DELETE CASCADE.
	tokens *RefreshTokenRepository
}

func NewUserRepository(tokens *RefreshTokenRepository) *UserRepository {
	return &UserRepository{
		users:  make(map[uuid.UUID]entity.User),
		tokens: tokens,
	}
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, outbound.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, outbound.ErrUserNotFound
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == user.ID || u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return outbound.ErrUserAlreadyExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return outbound.ErrUserNotFound
	}
	delete(r.users, id)

	if r.tokens != nil {
		_ = r.tokens.DeleteByUserID(ctx, id)
	}
	return nil
}
