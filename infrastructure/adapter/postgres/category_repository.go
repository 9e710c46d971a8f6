package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type CategoryRepositoryAdapter struct {
	db *sql.DB
}

func NewCategoryRepositoryAdapter(db *sql.DB) outbound.CategoryRepository {
	return &CategoryRepositoryAdapter{db: db}
}

func (r *CategoryRepositoryAdapter) List(ctx context.Context, page outbound.Page) ([]*entity.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY id LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepositoryAdapter) Create(ctx context.Context, category *entity.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Delete fails with ErrCategoryInUse while products still reference the row.
func (r *CategoryRepositoryAdapter) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return outbound.ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return outbound.ErrCategoryNotFound
	}
	return nil
}
