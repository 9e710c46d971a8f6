package catalog

import (
	"context"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

type CategoryUseCaseImpl struct {
	listCategoriesUseCase *ListCategoriesUseCase
	createCategoryUseCase *CreateCategoryUseCase
	deleteCategoryUseCase *DeleteCategoryUseCase
}

func NewCategoryUseCase(categoryRepo outbound.CategoryRepository) inbound.CategoryUseCase {
	return &CategoryUseCaseImpl{
		listCategoriesUseCase: NewListCategoriesUseCase(categoryRepo),
		createCategoryUseCase: NewCreateCategoryUseCase(categoryRepo),
		deleteCategoryUseCase: NewDeleteCategoryUseCase(categoryRepo),
	}
}

func (uc *CategoryUseCaseImpl) ListCategories(ctx context.Context, req inbound.ListRequest) ([]*entity.Category, error) {
	return uc.listCategoriesUseCase.Execute(ctx, req)
}

func (uc *CategoryUseCaseImpl) CreateCategory(ctx context.Context, req inbound.CreateCategoryRequest) (*entity.Category, error) {
	return uc.createCategoryUseCase.Execute(ctx, req)
}

func (uc *CategoryUseCaseImpl) DeleteCategory(ctx context.Context, id int64) error {
	return uc.deleteCategoryUseCase.Execute(ctx, id)
}

func pageOf(req inbound.ListRequest) outbound.Page {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	return outbound.Page{Limit: limit, Offset: offset}
}
