package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/filestore"
	"github.com/pizzastore/pizzastore/infrastructure/adapter/memory"
)

type failingImages struct{ err error }

func (f failingImages) Save(context.Context, string, io.Reader) (string, error) {
	return "", f.err
}

func TestPageOf(t *testing.T) {
	tests := []struct {
		in   inbound.ListRequest
		want outbound.Page
	}{
		{inbound.ListRequest{}, outbound.Page{Limit: 50}},
		{inbound.ListRequest{Limit: 500, Offset: 3}, outbound.Page{Limit: 100, Offset: 3}},
		{inbound.ListRequest{Limit: 10, Offset: -1}, outbound.Page{Limit: 10}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageOf(tt.in))
	}
}

func TestCatalogUseCases(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCatalog()
	images, err := filestore.NewImageStore(t.TempDir(), "static/img")
	require.NoError(t, err)

	categories := NewCategoryUseCase(store.Categories())
	products := NewProductUseCase(store.Products(), images)

	pizza, err := categories.CreateCategory(ctx, inbound.CreateCategoryRequest{Name: " Pizza "})
	require.NoError(t, err)
	assert.Equal(t, "Pizza", pizza.Name)

	t.Run("category conflicts", func(t *testing.T) {
		_, err := categories.CreateCategory(ctx, inbound.CreateCategoryRequest{Name: "Pizza"})
		assert.ErrorIs(t, err, apperror.ErrConflict)

		_, err = categories.CreateCategory(ctx, inbound.CreateCategoryRequest{Name: "  "})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	margherita, err := products.CreateProduct(ctx, inbound.CreateProductRequest{
		Name:          "Margherita",
		CategoryID:    pizza.ID,
		Weight:        450,
		Price:         500,
		ImageFilename: "m.jpg",
		Image:         strings.NewReader("jpeg bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(margherita.Image, "static/img/"))
	assert.True(t, strings.HasSuffix(margherita.Image, ".jpg"))

	t.Run("product conflicts", func(t *testing.T) {
		for _, req := range []inbound.CreateProductRequest{
			{Name: "Margherita", CategoryID: pizza.ID, Weight: 1, ImageFilename: "x.png", Image: bytes.NewReader([]byte{1})},
			{Name: "Ghost", CategoryID: 404, Weight: 1, ImageFilename: "x.png", Image: bytes.NewReader([]byte{1})},
		} {
			_, err := products.CreateProduct(ctx, req)
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeConflict, appErr.Code)
			assert.Equal(t, "Product already exists or category does not exist", appErr.Message)
		}
	})

	t.Run("product image rejected", func(t *testing.T) {
		_, err := products.CreateProduct(ctx, inbound.CreateProductRequest{
			Name: "Calzone", CategoryID: pizza.ID, Weight: 1, ImageFilename: "c.exe", Image: strings.NewReader("x"),
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = products.CreateProduct(ctx, inbound.CreateProductRequest{Name: "Calzone", CategoryID: pizza.ID, Weight: 1})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("image storage failure", func(t *testing.T) {
		broken := NewProductUseCase(store.Products(), failingImages{err: errors.New("disk full")})
		_, err := broken.CreateProduct(ctx, inbound.CreateProductRequest{
			Name: "Calzone", CategoryID: pizza.ID, Weight: 1, ImageFilename: "c.png", Image: strings.NewReader("x"),
		})
		assert.ErrorIs(t, err, apperror.ErrInternal)
	})

	t.Run("list with filter", func(t *testing.T) {
		other := int64(999)
		got, err := products.ListProducts(ctx, inbound.ListProductsRequest{CategoryID: &other})
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = products.ListProducts(ctx, inbound.ListProductsRequest{CategoryID: &pizza.ID})
		require.NoError(t, err)
		assert.Len(t, got, 1)

		cats, err := categories.ListCategories(ctx, inbound.ListRequest{})
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, categories.DeleteCategory(ctx, pizza.ID), apperror.ErrConflict)
		require.NoError(t, products.DeleteProduct(ctx, margherita.ID))
		assert.ErrorIs(t, products.DeleteProduct(ctx, margherita.ID), apperror.ErrNotFound)
		require.NoError(t, categories.DeleteCategory(ctx, pizza.ID))
		assert.ErrorIs(t, categories.DeleteCategory(ctx, pizza.ID), apperror.ErrNotFound)
	})
}
