package catalog

import (
	"context"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type ProductUseCaseImpl struct {
	listProductsUseCase  *ListProductsUseCase
	createProductUseCase *CreateProductUseCase
	deleteProductUseCase *DeleteProductUseCase
}

func NewProductUseCase(productRepo outbound.ProductRepository, images outbound.ImageStorage) inbound.ProductUseCase {
	return &ProductUseCaseImpl{
		listProductsUseCase:  NewListProductsUseCase(productRepo),
		createProductUseCase: NewCreateProductUseCase(productRepo, images),
		deleteProductUseCase: NewDeleteProductUseCase(productRepo),
	}
}

func (uc *ProductUseCaseImpl) ListProducts(ctx context.Context, req inbound.ListProductsRequest) ([]*entity.Product, error) {
	return uc.listProductsUseCase.Execute(ctx, req)
}

func (uc *ProductUseCaseImpl) CreateProduct(ctx context.Context, req inbound.CreateProductRequest) (*entity.Product, error) {
	return uc.createProductUseCase.Execute(ctx, req)
}

func (uc *ProductUseCaseImpl) DeleteProduct(ctx context.Context, id int64) error {
	return uc.deleteProductUseCase.Execute(ctx, id)
}
