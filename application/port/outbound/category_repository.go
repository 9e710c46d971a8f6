package outbound

import (
	"context"
	"errors"

	"github.com/pizzastore/pizzastore/domain/entity"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrCategoryInUse         = errors.New("category has products")
)

type Page struct {
	Limit  int
	Offset int
}

type CategoryRepository interface {
	List(ctx context.Context, page Page) ([]*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}
