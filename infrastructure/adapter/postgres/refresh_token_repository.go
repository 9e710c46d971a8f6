package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

const (
	insertRefreshToken = `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
	`
	selectRefreshToken = `SELECT user_id, token, expires_at FROM refresh_tokens`
)

// RefreshTokenRepositoryAdapter stores one row per user; user_id is the
// primary key.
type RefreshTokenRepositoryAdapter struct {
	db *sql.DB
}

func NewRefreshTokenRepositoryAdapter(db *sql.DB) outbound.RefreshTokenRepository {
	return &RefreshTokenRepositoryAdapter{
		db: db,
	}
}

func (r *RefreshTokenRepositoryAdapter) FindByToken(ctx context.Context, token uuid.UUID) (*entity.RefreshToken, error) {
	return r.findOne(ctx, selectRefreshToken+` WHERE token = $1`, token)
}

func (r *RefreshTokenRepositoryAdapter) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.RefreshToken, error) {
	return r.findOne(ctx, selectRefreshToken+` WHERE user_id = $1`, userID)
}

func (r *RefreshTokenRepositoryAdapter) findOne(ctx context.Context, query string, arg uuid.UUID) (*entity.RefreshToken, error) {
	var rt entity.RefreshToken
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&rt.UserID, &rt.Token, &rt.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &rt, nil
}

// Replace drops whatever token the user holds and inserts next. The upsert
// absorbs a concurrent sign-in that inserted between our delete and insert.
func (r *RefreshTokenRepositoryAdapter) Replace(ctx context.Context, next *entity.RefreshToken) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, next.UserID); err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertRefreshToken, next.UserID, next.Token, next.ExpiresAt); err != nil {
			return fmt.Errorf("failed to insert refresh token: %w", err)
		}
		return nil
	})
}

// Rotate only succeeds for the caller that deletes the row holding previous.
// A concurrent rotation blocks on the row lock and then sees zero rows.
func (r *RefreshTokenRepositoryAdapter) Rotate(ctx context.Context, previous uuid.UUID, next *entity.RefreshToken) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`, next.UserID, previous)
		if err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return outbound.ErrRefreshTokenNotFound
		}
		if _, err := tx.ExecContext(ctx, insertRefreshToken, next.UserID, next.Token, next.ExpiresAt); err != nil {
			return fmt.Errorf("failed to insert refresh token: %w", err)
		}
		return nil
	})
}

func (r *RefreshTokenRepositoryAdapter) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return outbound.ErrRefreshTokenNotFound
	}
	return nil
}

func (r *RefreshTokenRepositoryAdapter) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
