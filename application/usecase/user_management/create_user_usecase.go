package user_management

import (
	"context"
	"errors"
	"fmt"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/domain/permission"
	"github.com/pizzastore/pizzastore/domain/valueobject"
)

// CreateUserUseCase creates accounts with an explicit role. Sign-up always
// yields RoleUser, so this is the only path to an admin.
type CreateUserUseCase struct {
	userRepo    outbound.UserRepository
	passwordSvc outbound.PasswordService
	permissions *permission.Table
}

func NewCreateUserUseCase(
	userRepo outbound.UserRepository,
	passwordSvc outbound.PasswordService,
	permissions *permission.Table,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		permissions: permissions,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, req inbound.CreateUserRequest) (*entity.User, error) {
	credentials, err := valueobject.NewCredentials(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}
	if !uc.knownRole(req.Role) {
		return nil, apperror.Validation(fmt.Sprintf("unknown role %q", req.Role), nil)
	}

	hashedPassword, err := uc.passwordSvc.HashPassword(credentials.Password())
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	user := entity.NewUser(credentials.Username(), credentials.Email(), hashedPassword)
	user.Role = req.Role

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return nil, apperror.Conflict("User already exists", err)
		}
		return nil, apperror.Internal("create user", err)
	}
	return user, nil
}

func (uc *CreateUserUseCase) knownRole(role entity.Role) bool {
	for _, r := range uc.permissions.Roles() {
		if r == role {
			return true
		}
	}
	return false
}
