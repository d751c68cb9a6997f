package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Занятое имя пользователя возвращается как models.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var newID int64
	query := `INSERT INTO users (username, password_hash)
			  VALUES ($1, $2)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, user.Username, user.PasswordHash).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w: username %q is already taken", op, models.ErrConflict, user.Username)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, username, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w: user %q", op, models.ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
