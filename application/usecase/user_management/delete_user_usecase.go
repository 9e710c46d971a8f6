package user_management

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
)

type DeleteUserUseCase struct {
	userRepo         outbound.UserRepository
	refreshTokenRepo outbound.RefreshTokenRepository
}

func NewDeleteUserUseCase(userRepo outbound.UserRepository, refreshTokenRepo outbound.RefreshTokenRepository) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Execute removes the user and their refresh token. Access tokens already
// issued stay valid until they expire.
func (uc *DeleteUserUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperror.Validation("user ID cannot be empty", nil)
	}

	if err := uc.refreshTokenRepo.DeleteByUserID(ctx, userID); err != nil && !errors.Is(err, outbound.ErrRefreshTokenNotFound) {
		return apperror.Internal("delete refresh token", err)
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal("delete user", err)
	}
	return nil
}
