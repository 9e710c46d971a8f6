package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/domain/entity"
	"github.com/pizzastore/pizzastore/domain/permission"
	"github.com/pizzastore/pizzastore/domain/valueobject"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) SignUp(ctx context.Context, req inbound.SignUpRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockAuthUseCase) SignIn(ctx context.Context, req inbound.SignInRequest) (*valueobject.TokenPair, error) {
	args := m.Called(ctx, req)
	pair, _ := args.Get(0).(*valueobject.TokenPair)
	return pair, args.Error(1)
}

func (m *mockAuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*valueobject.TokenPair, error) {
	args := m.Called(ctx, req)
	pair, _ := args.Get(0).(*valueobject.TokenPair)
	return pair, args.Error(1)
}

func (m *mockAuthUseCase) SignOut(ctx context.Context, user valueobject.UserSnapshot) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockAuthUseCase) CurrentUser(ctx context.Context, bearerToken string, required permission.Set) (*valueobject.UserSnapshot, error) {
	args := m.Called(ctx, bearerToken, required)
	user, _ := args.Get(0).(*valueobject.UserSnapshot)
	return user, args.Error(1)
}

type mockCategoryUseCase struct {
	mock.Mock
}

func (m *mockCategoryUseCase) ListCategories(ctx context.Context, req inbound.ListRequest) ([]*entity.Category, error) {
	args := m.Called(ctx, req)
	list, _ := args.Get(0).([]*entity.Category)
	return list, args.Error(1)
}

func (m *mockCategoryUseCase) CreateCategory(ctx context.Context, req inbound.CreateCategoryRequest) (*entity.Category, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *mockCategoryUseCase) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductUseCase struct {
	mock.Mock
}

func (m *mockProductUseCase) ListProducts(ctx context.Context, req inbound.ListProductsRequest) ([]*entity.Product, error) {
	args := m.Called(ctx, req)
	list, _ := args.Get(0).([]*entity.Product)
	return list, args.Error(1)
}

func (m *mockProductUseCase) CreateProduct(ctx context.Context, req inbound.CreateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *mockProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserManagementUseCase struct {
	mock.Mock
}

func (m *mockUserManagementUseCase) CreateUser(ctx context.Context, req inbound.CreateUserRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserManagementUseCase) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
