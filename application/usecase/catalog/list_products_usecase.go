package catalog

import (
	"context"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type ListProductsUseCase struct {
	productRepo outbound.ProductRepository
}

func NewListProductsUseCase(productRepo outbound.ProductRepository) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, req inbound.ListProductsRequest) ([]*entity.Product, error) {
	products, err := uc.productRepo.List(ctx, outbound.ProductFilter{CategoryID: req.CategoryID}, pageOf(req.ListRequest))
	if err != nil {
		return nil, apperror.Internal("list products", err)
	}
	return products, nil
}
