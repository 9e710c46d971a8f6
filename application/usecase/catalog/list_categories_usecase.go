package catalog

import (
	"context"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type ListCategoriesUseCase struct {
	categoryRepo outbound.CategoryRepository
}

func NewListCategoriesUseCase(categoryRepo outbound.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categoryRepo: categoryRepo}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context, req inbound.ListRequest) ([]*entity.Category, error) {
	categories, err := uc.categoryRepo.List(ctx, pageOf(req))
	if err != nil {
		return nil, apperror.Internal("list categories", err)
	}
	return categories, nil
}
