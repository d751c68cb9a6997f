// Package archive закрывает период: переносит установки владельца за диапазон
// дат в неизменяемый исторический отчёт.
package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/commission"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/isodate"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Repository выполняет архивацию в одной транзакции.
type Repository interface {
	ArchivePeriod(ctx context.Context, ownerID int64, start, end string, build models.ReportBuilder) (*models.Report, error)
}

// Publisher отправляет событие о созданном отчёте.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Recorder учитывает созданные отчёты (метрики).
type Recorder interface {
	ReportArchived(installations int)
}

// Service реализует архивацию периода.
type Service struct {
	repo      Repository
	publisher Publisher
	recorder  Recorder
	log       *slog.Logger
}

// NewService создаёт Service. publisher и recorder могут быть nil.
func NewService(repo Repository, publisher Publisher, recorder Recorder, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		log:       log,
	}
}

// Summarize строит отчёт по выбранным установкам: сумма, количество и снимок
// в порядке выборки.
func Summarize(selected []models.Installation) models.Report {
	snapshot := make([]models.SnapshotItem, 0, len(selected))
	for _, inst := range selected {
		snapshot = append(snapshot, models.SnapshotOf(inst))
	}
	return models.Report{
		TotalCommission:  commission.Sum(selected),
		NumInstallations: len(selected),
		Snapshot:         snapshot,
	}
}

// ArchivePeriod архивирует установки владельца с датой в [start, end].
// Возвращает (nil, nil), если в периоде нет установок.
func (s *Service) ArchivePeriod(ctx context.Context, ownerID int64, start, end string) (*models.Report, error) {
	const op = "archive.ArchivePeriod"
	log := s.log.With(sl.Op(op), slog.Int64("user_id", ownerID))

	start, end, err := isodate.ParsePeriod(start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report, err := s.repo.ArchivePeriod(ctx, ownerID, start, end, Summarize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if report == nil {
		log.Info("nothing to archive", slog.String("start", start), slog.String("end", end))
		return nil, nil
	}

	log.Info("period archived",
		slog.Int64("report_id", report.ID),
		slog.Int("installations", report.NumInstallations),
		slog.Float64("total_commission", report.TotalCommission),
	)

	if s.recorder != nil {
		s.recorder.ReportArchived(report.NumInstallations)
	}
	if s.publisher != nil {
		event := rabbitmq.ReportArchived{
			ReportID:         report.ID,
			UserID:           report.UserID,
			PeriodStart:      report.PeriodStart,
			PeriodEnd:        report.PeriodEnd,
			TotalCommission:  report.TotalCommission,
			NumInstallations: report.NumInstallations,
		}
		// отчёт уже зафиксирован, ошибка публикации только логируется
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingReportArchived, event); err != nil {
			log.Warn("failed to publish report event", sl.Err(err))
		}
	}

	return report, nil
}
