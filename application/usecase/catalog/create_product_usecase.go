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

type CreateProductUseCase struct {
	productRepo outbound.ProductRepository
	images      outbound.ImageStorage
}

func NewCreateProductUseCase(productRepo outbound.ProductRepository, images outbound.ImageStorage) *CreateProductUseCase {
	return &CreateProductUseCase{
		productRepo: productRepo,
		images:      images,
	}
}

// Execute stores the image before the row. Images are content addressed, so
// one left behind by a rejected insert is reused by the next upload of the
// same file.
func (uc *CreateProductUseCase) Execute(ctx context.Context, req inbound.CreateProductRequest) (*entity.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required", nil)
	}
	if req.Image == nil {
		return nil, apperror.Validation("image is required", nil)
	}

	imagePath, err := uc.images.Save(ctx, req.ImageFilename, req.Image)
	if err != nil {
		if errors.Is(err, outbound.ErrUnsupportedImageType) || errors.Is(err, outbound.ErrEmptyImage) {
			return nil, apperror.Validation(err.Error(), err)
		}
		return nil, apperror.Internal("save image", err)
	}

	product := &entity.Product{
		Name:       name,
		CategoryID: req.CategoryID,
		Weight:     req.Weight,
		Price:      req.Price,
		Image:      imagePath,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, outbound.ErrProductConflict) {
			return nil, apperror.Conflict("Product already exists or category does not exist", err)
		}
		return nil, apperror.Internal("create product", err)
	}
	return product, nil
}
