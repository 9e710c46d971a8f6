package catalog

import (
	"context"
	"errors"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
)

type DeleteCategoryUseCase struct {
	categoryRepo outbound.CategoryRepository
}

func NewDeleteCategoryUseCase(categoryRepo outbound.CategoryRepository) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{categoryRepo: categoryRepo}
}

// Execute refuses to delete a category that still has products.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, id int64) error {
	err := uc.categoryRepo.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, outbound.ErrCategoryNotFound):
		return apperror.NotFound("Category not found")
	case errors.Is(err, outbound.ErrCategoryInUse):
		return apperror.Conflict("Category still has products", err)
	default:
		return apperror.Internal("delete category", err)
	}
}
