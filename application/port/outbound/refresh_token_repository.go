package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/domain/entity"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	FindByToken(ctx context.Context, token uuid.UUID) (*entity.RefreshToken, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.RefreshToken, error)
	// Replace deletes any token of next.UserID and inserts next in one transaction.
	Replace(ctx context.Context, next *entity.RefreshToken) error
	// Rotate deletes the row holding previous for next.UserID and inserts next in
	// one transaction. It fails with ErrRefreshTokenNotFound when that row is
	// already gone, which is how a reused refresh token is detected.
	Rotate(ctx context.Context, previous uuid.UUID, next *entity.RefreshToken) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
