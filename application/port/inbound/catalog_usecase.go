package inbound

import (
	"context"
	"io"

	"github.com/pizzastore/pizzastore/domain/entity"
)

type ListRequest struct {
	Limit  int `validate:"min=0,max=100"`
	Offset int `validate:"min=0"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=30"`
}

type CategoryUseCase interface {
	ListCategories(ctx context.Context, req ListRequest) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type ListProductsRequest struct {
	ListRequest
	CategoryID *int64
}

type CreateProductRequest struct {
	Name          string    `validate:"required,max=30"`
	CategoryID    int64     `validate:"required,min=1"`
	Weight        int       `validate:"required,min=1"`
	Price         int       `validate:"min=0"`
	ImageFilename string    `validate:"required"`
	Image         io.Reader `validate:"-"`
}

type ProductUseCase interface {
	ListProducts(ctx context.Context, req ListProductsRequest) ([]*entity.Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
