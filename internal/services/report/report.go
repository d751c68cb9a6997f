// Package report отдаёт текущий журнал и исторические отчёты для просмотра,
// печати и выгрузки. Пакет только читает данные.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/commission"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Repository определяет методы чтения журнала и отчётов.
type Repository interface {
	ListInstallations(ctx context.Context, ownerID int64) ([]models.Installation, error)
	GetReport(ctx context.Context, id int64) (*models.Report, error)
	ListReports(ctx context.Context, ownerID int64) ([]models.Report, error)
}

// Service реализует просмотр отчётов.
type Service struct {
	repo Repository
}

// NewService создаёт Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Live возвращает журнал владельца (новые записи первыми) и сумму комиссий.
func (s *Service) Live(ctx context.Context, ownerID int64) (*models.LiveReport, error) {
	const op = "report.Live"

	list, err := s.repo.ListInstallations(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if list == nil {
		list = []models.Installation{}
	}
	return &models.LiveReport{
		Installations:   list,
		TotalCommission: commission.Sum(list),
		Count:           len(list),
	}, nil
}

// LivePrintable возвращает тот же журнал, упорядоченный по дате установки.
// При равных датах сохраняется порядок создания.
func (s *Service) LivePrintable(ctx context.Context, ownerID int64) (*models.LiveReport, error) {
	const op = "report.LivePrintable"

	live, err := s.Live(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sorted := make([]models.Installation, len(live.Installations))
	copy(sorted, live.Installations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].InstalledOn != sorted[j].InstalledOn {
			return sorted[i].InstalledOn < sorted[j].InstalledOn
		}
		return sorted[i].ID < sorted[j].ID
	})
	live.Installations = sorted
	return live, nil
}

// Historical возвращает отчёт владельца со снимком установок.
func (s *Service) Historical(ctx context.Context, ownerID, reportID int64) (*models.Report, error) {
	const op = "report.Historical"

	r, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if r.UserID != ownerID {
		return nil, fmt.Errorf("%s: %w: report %d belongs to another user", op, models.ErrForbidden, reportID)
	}
	if r.Snapshot == nil {
		r.Snapshot = []models.SnapshotItem{}
	}
	return r, nil
}

// ListHistorical возвращает отчёты владельца без снимков, новые первыми.
func (s *Service) ListHistorical(ctx context.Context, ownerID int64) ([]models.Report, error) {
	const op = "report.ListHistorical"

	list, err := s.repo.ListReports(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if list == nil {
		list = []models.Report{}
	}
	return list, nil
}
