package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepo struct {
	db *sqlx.DB
}

func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) Save(ctx context.Context, t *Token) (*Token, error) {
	query := `
		INSERT INTO tokens (user_id, token, token_type, expired, revoked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, token, token_type, expired, revoked, created_at
	`
	var saved Token
	err := r.db.GetContext(ctx, &saved, query, t.UserID, t.Token, t.TokenType, t.Expired, t.Revoked)
	if err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	return &saved, nil
}

func (r *TokenRepo) GetByToken(ctx context.Context, raw string) (*Token, error) {
	query := `
		SELECT id, user_id, token, token_type, expired, revoked, created_at
		FROM tokens
		WHERE token = $1
	`
	var t Token
	err := r.db.GetContext(ctx, &t, query, raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &t, nil
}

// Rotate marks every live token of the user expired and revoked, then
// inserts the fresh one. Both statements run in one transaction so two
// live tokens can never coexist for a user.
func (r *TokenRepo) Rotate(ctx context.Context, userID uuid.UUID, fresh *Token) (*Token, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin token rotation: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tokens
		SET expired = true, revoked = true
		WHERE user_id = $1 AND expired = false AND revoked = false
	`, userID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to revoke tokens: %w", err)
	}

	var saved Token
	err = tx.GetContext(ctx, &saved, `
		INSERT INTO tokens (user_id, token, token_type, expired, revoked)
		VALUES ($1, $2, $3, false, false)
		RETURNING id, user_id, token, token_type, expired, revoked, created_at
	`, fresh.UserID, fresh.Token, fresh.TokenType)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to save rotated token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit token rotation: %w", err)
	}

	return &saved, nil
}
