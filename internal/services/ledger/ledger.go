// Package ledger содержит бизнес-логику текущего журнала установок:
// проверку входных данных, расчёт комиссии по каталогу и операции над
// записями в пределах одного владельца.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/commission"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/isodate"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Ограничения длины совпадают с размерами колонок в схеме.
const (
	maxClientLogin = 100
	maxNotes       = 300
)

// Repository определяет методы хранилища, нужные журналу.
type Repository interface {
	// CreateInstallation сохраняет запись и возвращает её с id и временем создания.
	CreateInstallation(ctx context.Context, inst models.Installation) (*models.Installation, error)
	// GetInstallation возвращает запись по id без проверки владельца.
	GetInstallation(ctx context.Context, id int64) (*models.Installation, error)
	// UpdateInstallation перезаписывает запись владельца под блокировкой строки.
	UpdateInstallation(ctx context.Context, ownerID int64, inst models.Installation) (*models.Installation, error)
	// DeleteInstallation удаляет запись владельца.
	DeleteInstallation(ctx context.Context, ownerID, id int64) error
}

// Recorder получает уведомления о созданных записях (метрики).
type Recorder interface {
	InstallationCreated()
}

// Service реализует операции журнала.
type Service struct {
	repo           Repository
	recorder       Recorder
	log            *slog.Logger
	defaultPercent float64
}

// NewService создаёт Service. defaultPercent подставляется, когда процент
// комиссии не указан; неположительное значение заменяется на 15.
func NewService(repo Repository, recorder Recorder, log *slog.Logger, defaultPercent float64) *Service {
	if defaultPercent <= 0 {
		defaultPercent = models.DefaultCommissionPercent
	}
	return &Service{
		repo:           repo,
		recorder:       recorder,
		log:            log,
		defaultPercent: defaultPercent,
	}
}

// build проверяет ввод и собирает запись с рассчитанными ценой и комиссией.
// Все ошибки здесь возникают до обращения к хранилищу.
func (s *Service) build(ownerID int64, in models.InstallationInput) (models.Installation, error) {
	category := strings.TrimSpace(in.PlanCategory)
	tier := strings.TrimSpace(in.PlanTier)
	client := strings.TrimSpace(in.ClientLogin)
	if category == "" || tier == "" || client == "" || strings.TrimSpace(in.InstalledOn) == "" {
		return models.Installation{}, fmt.Errorf("%w: plan category, plan tier, client login and installation date are required", models.ErrValidation)
	}

	if utf8.RuneCountInString(client) > maxClientLogin {
		return models.Installation{}, fmt.Errorf("%w: client login must be at most %d characters", models.ErrValidation, maxClientLogin)
	}
	notesText := strings.TrimSpace(in.Notes)
	if utf8.RuneCountInString(notesText) > maxNotes {
		return models.Installation{}, fmt.Errorf("%w: notes must be at most %d characters", models.ErrValidation, maxNotes)
	}

	date, err := isodate.Parse(in.InstalledOn)
	if err != nil {
		return models.Installation{}, err
	}

	percent := s.defaultPercent
	if in.CommissionPercent != nil {
		percent = *in.CommissionPercent
	}

	billing, err := commission.Compute(category, tier, percent)
	if err != nil {
		return models.Installation{}, err
	}

	var notes *string
	if notesText != "" {
		notes = &notesText
	}

	return models.Installation{
		UserID:            ownerID,
		PlanCategory:      category,
		PlanTier:          tier,
		Description:       billing.Description,
		OriginalPrice:     billing.OriginalPrice,
		RoundedPrice:      billing.RoundedPrice,
		ClientLogin:       client,
		InstalledOn:       date,
		CommissionPercent: percent,
		Commission:        billing.Commission,
		Notes:             notes,
	}, nil
}

// Create добавляет установку в журнал владельца.
func (s *Service) Create(ctx context.Context, ownerID int64, in models.InstallationInput) (*models.Installation, error) {
	const op = "ledger.Create"

	inst, err := s.build(ownerID, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreateInstallation(ctx, inst)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.recorder != nil {
		s.recorder.InstallationCreated()
	}
	s.log.Info("installation created",
		slog.Int64("id", created.ID),
		slog.Int64("user_id", ownerID),
		slog.Float64("commission", created.Commission),
	)
	return created, nil
}

// Update пересчитывает и перезаписывает установку. Если запись принадлежит
// другому пользователю, возвращается ErrForbidden и запись не меняется.
func (s *Service) Update(ctx context.Context, ownerID, id int64, in models.InstallationInput) (*models.Installation, error) {
	const op = "ledger.Update"

	inst, err := s.build(ownerID, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inst.ID = id

	updated, err := s.repo.UpdateInstallation(ctx, ownerID, inst)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("installation updated", slog.Int64("id", id), slog.Int64("user_id", ownerID))
	return updated, nil
}

// Delete удаляет установку владельца.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	const op = "ledger.Delete"

	if err := s.repo.DeleteInstallation(ctx, ownerID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("installation deleted", slog.Int64("id", id), slog.Int64("user_id", ownerID))
	return nil
}

// Get возвращает установку, если она принадлежит владельцу.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*models.Installation, error) {
	const op = "ledger.Get"

	inst, err := s.repo.GetInstallation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if inst.UserID != ownerID {
		return nil, fmt.Errorf("%s: %w: installation %d belongs to another user", op, models.ErrForbidden, id)
	}
	return inst, nil
}
