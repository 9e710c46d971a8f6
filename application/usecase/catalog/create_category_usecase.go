package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type CreateCategoryUseCase struct {
	categoryRepo outbound.CategoryRepository
}

func NewCreateCategoryUseCase(categoryRepo outbound.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{categoryRepo: categoryRepo}
}

func (uc *CreateCategoryUseCase) Execute(ctx context.Context, req inbound.CreateCategoryRequest) (*entity.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required", nil)
	}

	category := &entity.Category{Name: name}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, outbound.ErrCategoryAlreadyExists) {
			return nil, apperror.Conflict("Category already exists", err)
		}
		return nil, apperror.Internal("create category", err)
	}
	return category, nil
}
