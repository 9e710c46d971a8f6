package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type ProductRepositoryAdapter struct {
	db *sql.DB
}

func NewProductRepositoryAdapter(db *sql.DB) outbound.ProductRepository {
	return &ProductRepositoryAdapter{db: db}
}

func (r *ProductRepositoryAdapter) List(ctx context.Context, filter outbound.ProductFilter, page outbound.Page) ([]*entity.Product, error) {
	query := `
		SELECT id, category_id, name, weight, price, image
		FROM products
		WHERE ($1::int IS NULL OR category_id = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	var categoryID sql.NullInt64
	if filter.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *filter.CategoryID, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, categoryID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Weight, &p.Price, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// Create reports a duplicate name and an unknown category alike.
func (r *ProductRepositoryAdapter) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (category_id, name, weight, price, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		product.CategoryID,
		product.Name,
		product.Weight,
		product.Price,
		product.Image,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) || isForeignKeyViolation(err) {
			return outbound.ErrProductConflict
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepositoryAdapter) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return outbound.ErrProductNotFound
	}
	return nil
}
