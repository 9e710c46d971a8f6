package user_management

import (
	"context"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/domain/permission"
)

type UserManagementUseCaseImpl struct {
	createUserUseCase *CreateUserUseCase
	deleteUserUseCase *DeleteUserUseCase
}

func NewUserManagementUseCase(
	userRepo outbound.UserRepository,
	refreshTokenRepo outbound.RefreshTokenRepository,
	passwordSvc outbound.PasswordService,
	permissions *permission.Table,
) inbound.UserManagementUseCase {
	return &UserManagementUseCaseImpl{
		createUserUseCase: NewCreateUserUseCase(userRepo, passwordSvc, permissions),
		deleteUserUseCase: NewDeleteUserUseCase(userRepo, refreshTokenRepo),
	}
}

func (uc *UserManagementUseCaseImpl) CreateUser(ctx context.Context, req inbound.CreateUserRequest) (*entity.User, error) {
	return uc.createUserUseCase.Execute(ctx, req)
}

func (uc *UserManagementUseCaseImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return uc.deleteUserUseCase.Execute(ctx, userID)
}
