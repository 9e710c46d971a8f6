package outbound

import (
	"context"
	"errors"

	"github.com/pizzastore/pizzastore/domain/entity"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrProductConflict covers a duplicate name and an unknown category.
	ErrProductConflict = errors.New("product already exists or category does not exist")
)

type ProductFilter struct {
	CategoryID *int64
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter, page Page) ([]*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error
}
