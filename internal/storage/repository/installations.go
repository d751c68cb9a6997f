package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

const installationColumns = `id, user_id, plan_category, plan_tier, description, original_price,
	rounded_price, client_login, installed_on, commission_percent, commission, notes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstallation(row rowScanner) (*models.Installation, error) {
	var inst models.Installation
	var notes sql.NullString
	if err := row.Scan(&inst.ID, &inst.UserID, &inst.PlanCategory, &inst.PlanTier, &inst.Description,
		&inst.OriginalPrice, &inst.RoundedPrice, &inst.ClientLogin, &inst.InstalledOn,
		&inst.CommissionPercent, &inst.Commission, &notes, &inst.CreatedAt); err != nil {
		return nil, err
	}
	if notes.Valid {
		inst.Notes = &notes.String
	}
	return &inst, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// CreateInstallation вставляет новую установку и возвращает сохранённую запись.
func (s *Storage) CreateInstallation(ctx context.Context, inst models.Installation) (*models.Installation, error) {
	const op = "storage.CreateInstallation"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO installations (user_id, plan_category, plan_tier, description,
			      original_price, rounded_price, client_login, installed_on,
			      commission_percent, commission, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + installationColumns
	row := s.DB.QueryRowContext(ctx, query,
		inst.UserID, inst.PlanCategory, inst.PlanTier, inst.Description,
		inst.OriginalPrice, inst.RoundedPrice, inst.ClientLogin, inst.InstalledOn,
		inst.CommissionPercent, inst.Commission, nullString(inst.Notes))
	created, err := scanInstallation(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetInstallation возвращает установку по ID без проверки владельца.
func (s *Storage) GetInstallation(ctx context.Context, id int64) (*models.Installation, error) {
	const op = "storage.GetInstallation"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + installationColumns + ` FROM installations WHERE id = $1`
	inst, err := scanInstallation(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w: installation %d", op, models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inst, nil
}

// UpdateInstallation перезаписывает изменяемые поля установки inst.ID.
// Строка блокируется на время транзакции; чужая запись возвращает models.ErrForbidden,
// отсутствующая: models.ErrNotFound. При любой ошибке запись остаётся прежней.
func (s *Storage) UpdateInstallation(ctx context.Context, ownerID int64, inst models.Installation) (*models.Installation, error) {
	const op = "storage.UpdateInstallation"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var updated *models.Installation
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOwned(ctx, tx, ownerID, inst.ID); err != nil {
			return err
		}

		query := `UPDATE installations
				  SET plan_category = $1, plan_tier = $2, description = $3, original_price = $4,
				      rounded_price = $5, client_login = $6, installed_on = $7,
				      commission_percent = $8, commission = $9, notes = $10
				  WHERE id = $11
				  RETURNING ` + installationColumns
		row := tx.QueryRowContext(ctx, query,
			inst.PlanCategory, inst.PlanTier, inst.Description, inst.OriginalPrice,
			inst.RoundedPrice, inst.ClientLogin, inst.InstalledOn,
			inst.CommissionPercent, inst.Commission, nullString(inst.Notes), inst.ID)
		var err error
		updated, err = scanInstallation(row)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// DeleteInstallation удаляет установку владельца.
func (s *Storage) DeleteInstallation(ctx context.Context, ownerID, id int64) error {
	const op = "storage.DeleteInstallation"
	if err := checkCtx(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOwned(ctx, tx, ownerID, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM installations WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListInstallations возвращает установки владельца, сначала самые новые.
func (s *Storage) ListInstallations(ctx context.Context, ownerID int64) ([]models.Installation, error) {
	const op = "storage.ListInstallations"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + installationColumns + `
			  FROM installations
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectInstallations(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func collectInstallations(rows *sql.Rows) ([]models.Installation, error) {
	result := []models.Installation{}
	for rows.Next() {
		inst, err := scanInstallation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
