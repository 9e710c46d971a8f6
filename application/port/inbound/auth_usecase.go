package inbound

import (
	"context"

	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/domain/permission"
	"github.com/pizzastore/pizzastore/domain/valueobject"
)

type SignUpRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// SignInRequest carries the form fields of /auth/sign-in. Username may hold an
// email or a username.
type SignInRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string
}

type AuthUseCase interface {
	SignUp(ctx context.Context, req SignUpRequest) (*entity.User, error)
	SignIn(ctx context.Context, req SignInRequest) (*valueobject.TokenPair, error)
	Refresh(ctx context.Context, req RefreshRequest) (*valueobject.TokenPair, error)
	SignOut(ctx context.Context, user valueobject.UserSnapshot) error
	// CurrentUser decodes a bearer token and checks the holder's role grants required.
	CurrentUser(ctx context.Context, bearerToken string, required permission.Set) (*valueobject.UserSnapshot, error)
}
