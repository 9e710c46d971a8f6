package catalog

import (
	"context"
	"errors"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
)

type DeleteProductUseCase struct {
	productRepo outbound.ProductRepository
}

func NewDeleteProductUseCase(productRepo outbound.ProductRepository) *DeleteProductUseCase {
	return &DeleteProductUseCase{productRepo: productRepo}
}

func (uc *DeleteProductUseCase) Execute(ctx context.Context, id int64) error {
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, outbound.ErrProductNotFound) {
			return apperror.NotFound("Product not found")
		}
		return apperror.Internal("delete product", err)
	}
	return nil
}
