package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// ArchivePeriod выбирает установки владельца с датой в [start, end], сохраняет по ним
// отчёт и удаляет их из журнала. Всё выполняется в одной транзакции: либо отчёт
// создан и установки удалены, либо не изменилось ничего.
// Если в периоде нет установок, возвращает (nil, nil).
func (s *Storage) ArchivePeriod(ctx context.Context, ownerID int64, start, end string, build models.ReportBuilder) (*models.Report, error) {
	const op = "storage.ArchivePeriod"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var report *models.Report
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `SELECT ` + installationColumns + `
				  FROM installations
				  WHERE user_id = $1 AND installed_on BETWEEN $2 AND $3
				  ORDER BY id
				  FOR UPDATE`
		rows, err := tx.QueryContext(ctx, query, ownerID, start, end)
		if err != nil {
			return err
		}
		selected, err := collectInstallations(rows)
		_ = rows.Close()
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return nil
		}

		built := build(selected)
		built.UserID = ownerID
		built.PeriodStart = start
		built.PeriodEnd = end
		raw, err := models.EncodeSnapshot(built.Snapshot)
		if err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO historical_reports (user_id, period_start, period_end, total_commission,
			     num_installations, installations_json)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			ownerID, start, end, built.TotalCommission, built.NumInstallations, raw,
		).Scan(&built.ID, &built.CreatedAt)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(selected))
		for _, inst := range selected {
			ids = append(ids, inst.ID)
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM installations WHERE user_id = $1 AND id = ANY($2)`, ownerID, ids)
		if err != nil {
			return err
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if int(deleted) != len(ids) {
			return fmt.Errorf("deleted %d installations, expected %d", deleted, len(ids))
		}

		report = &built
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return report, nil
}

// GetReport возвращает исторический отчёт вместе с декодированным снимком.
func (s *Storage) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	const op = "storage.GetReport"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, user_id, period_start, period_end, total_commission,
			      num_installations, created_at, installations_json
			  FROM historical_reports
			  WHERE id = $1`
	var r models.Report
	var raw string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.UserID, &r.PeriodStart, &r.PeriodEnd,
		&r.TotalCommission, &r.NumInstallations, &r.CreatedAt, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w: report %d", op, models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.Snapshot, err = models.DecodeSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// ListReports возвращает отчёты владельца без снимков, сначала самые новые.
func (s *Storage) ListReports(ctx context.Context, ownerID int64) ([]models.Report, error) {
	const op = "storage.ListReports"
	if err := checkCtx(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, user_id, period_start, period_end, total_commission,
			      num_installations, created_at
			  FROM historical_reports
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Report{}
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.PeriodStart, &r.PeriodEnd,
			&r.TotalCommission, &r.NumInstallations, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
