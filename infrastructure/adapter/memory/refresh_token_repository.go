package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

// RefreshTokenRepository keys rows by user id, so a user holds at most one.
type RefreshTokenRepository struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]entity.RefreshToken
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{byUser: make(map[uuid.UUID]entity.RefreshToken)}
}

func (r *RefreshTokenRepository) FindByToken(_ context.Context, token uuid.UUID) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rt := range r.byUser {
		if rt.Token == token {
			found := rt
			return &found, nil
		}
	}
	return nil, outbound.ErrRefreshTokenNotFound
}

func (r *RefreshTokenRepository) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.byUser[userID]
	if !ok {
		return nil, outbound.ErrRefreshTokenNotFound
	}
	return &rt, nil
}

func (r *RefreshTokenRepository) Replace(_ context.Context, next *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[next.UserID] = *next
	return nil
}

func (r *RefreshTokenRepository) Rotate(_ context.Context, previous uuid.UUID, next *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byUser[next.UserID]
	if !ok || current.Token != previous {
		return outbound.ErrRefreshTokenNotFound
	}
	r.byUser[next.UserID] = *next
	return nil
}

func (r *RefreshTokenRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[userID]; !ok {
		return outbound.ErrRefreshTokenNotFound
	}
	delete(r.byUser, userID)
	return nil
}
