package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/domain/entity"
)

type CreateUserRequest struct {
	Username string
	Email    string
	Password string
	Role     entity.Role
}

type UserManagementUseCase interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
