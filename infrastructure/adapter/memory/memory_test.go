package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	tokens := NewRefreshTokenRepository()
	repo := NewUserRepository(tokens)

	alice := entity.NewUser("alice", "a@x.io", "hash")
	require.NoError(t, repo.Create(ctx, alice))

	t.Run("lookups", func(t *testing.T) {
		byEmail, err := repo.FindByEmail(ctx, "A@X.io")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		byName, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byName.ID)

		_, err = repo.FindByUsername(ctx, "bob")
		assert.ErrorIs(t, err, outbound.ErrUserNotFound)
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		err := repo.Create(ctx, entity.NewUser("alice", "other@x.io", "hash"))
		assert.ErrorIs(t, err, outbound.ErrUserAlreadyExists)

		err = repo.Create(ctx, entity.NewUser("alice2", "a@x.io", "hash"))
		assert.ErrorIs(t, err, outbound.ErrUserAlreadyExists)
	})

	t.Run("returned users are copies", func(t *testing.T) {
		u, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		u.Role = entity.RoleAdmin

		again, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, again.Role)
	})

	t.Run("delete cascades refresh token", func(t *testing.T) {
		require.NoError(t, tokens.Replace(ctx, entity.NewRefreshToken(alice.ID, time.Now(), time.Hour)))
		require.NoError(t, repo.Delete(ctx, alice.ID))

		_, err := tokens.FindByUserID(ctx, alice.ID)
		assert.ErrorIs(t, err, outbound.ErrRefreshTokenNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, alice.ID), outbound.ErrUserNotFound)
	})
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()
	userID := uuid.New()
	now := time.Now()

	first := entity.NewRefreshToken(userID, now, time.Hour)
	require.NoError(t, repo.Replace(ctx, first))

	second := entity.NewRefreshToken(userID, now, time.Hour)
	require.NoError(t, repo.Replace(ctx, second))

	_, err := repo.FindByToken(ctx, first.Token)
	assert.ErrorIs(t, err, outbound.ErrRefreshTokenNotFound, "replace keeps one row per user")

	third := entity.NewRefreshToken(userID, now, time.Hour)
	require.NoError(t, repo.Rotate(ctx, second.Token, third))

	fourth := entity.NewRefreshToken(userID, now, time.Hour)
	assert.ErrorIs(t, repo.Rotate(ctx, second.Token, fourth), outbound.ErrRefreshTokenNotFound, "stale token cannot rotate")

	got, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, third.Token, got.Token)

	require.NoError(t, repo.DeleteByUserID(ctx, userID))
	assert.ErrorIs(t, repo.DeleteByUserID(ctx, userID), outbound.ErrRefreshTokenNotFound)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog()
	categories := catalog.Categories()
	products := catalog.Products()

	pizza := &entity.Category{Name: "Pizza"}
	drinks := &entity.Category{Name: "Drinks"}
	require.NoError(t, categories.Create(ctx, pizza))
	require.NoError(t, categories.Create(ctx, drinks))
	assert.Equal(t, int64(1), pizza.ID)
	assert.ErrorIs(t, categories.Create(ctx, &entity.Category{Name: "Pizza"}), outbound.ErrCategoryAlreadyExists)

	margherita := &entity.Product{Name: "Margherita", CategoryID: pizza.ID, Weight: 450, Price: 500, Image: "static/img/a.png"}
	require.NoError(t, products.Create(ctx, margherita))
	require.NoError(t, products.Create(ctx, &entity.Product{Name: "Cola", CategoryID: drinks.ID, Weight: 330, Price: 100, Image: "static/img/b.png"}))

	assert.ErrorIs(t, products.Create(ctx, &entity.Product{Name: "Margherita", CategoryID: pizza.ID}), outbound.ErrProductConflict)
	assert.ErrorIs(t, products.Create(ctx, &entity.Product{Name: "Ghost", CategoryID: 99}), outbound.ErrProductConflict)

	t.Run("filter and paging", func(t *testing.T) {
		all, err := products.List(ctx, outbound.ProductFilter{}, outbound.Page{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		onlyPizza, err := products.List(ctx, outbound.ProductFilter{CategoryID: &pizza.ID}, outbound.Page{})
		require.NoError(t, err)
		require.Len(t, onlyPizza, 1)
		assert.Equal(t, "Margherita", onlyPizza[0].Name)

		second, err := categories.List(ctx, outbound.Page{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "Drinks", second[0].Name)

		beyond, err := categories.List(ctx, outbound.Page{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})

	t.Run("category in use", func(t *testing.T) {
		assert.ErrorIs(t, categories.Delete(ctx, pizza.ID), outbound.ErrCategoryInUse)
		require.NoError(t, products.Delete(ctx, margherita.ID))
		require.NoError(t, categories.Delete(ctx, pizza.ID))
		assert.ErrorIs(t, categories.Delete(ctx, pizza.ID), outbound.ErrCategoryNotFound)
		assert.ErrorIs(t, products.Delete(ctx, margherita.ID), outbound.ErrProductNotFound)
	})
}
