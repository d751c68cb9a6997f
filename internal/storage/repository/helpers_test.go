package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/commission"
	"github.com/magabrotheeeer/commission-ledger/internal/migrations"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, migrationsPath)
	require.NoError(t, err)

	return storage
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создаёт пользователя и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, username string) int64 {
	t.Helper()
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	return id
}

// CreateInstallation создаёт установку по плану CIDADE_FIBRA/300_MEGAS на указанную дату.
func (f *TestDataFactory) CreateInstallation(t *testing.T, ownerID int64, client, date string) *models.Installation {
	t.Helper()
	billing, err := commission.Compute("CIDADE_FIBRA", "300_MEGAS", models.DefaultCommissionPercent)
	require.NoError(t, err)

	inst, err := f.storage.CreateInstallation(context.Background(), models.Installation{
		UserID:            ownerID,
		PlanCategory:      "CIDADE_FIBRA",
		PlanTier:          "300_MEGAS",
		Description:       billing.Description,
		OriginalPrice:     billing.OriginalPrice,
		RoundedPrice:      billing.RoundedPrice,
		ClientLogin:       client,
		InstalledOn:       date,
		CommissionPercent: models.DefaultCommissionPercent,
		Commission:        billing.Commission,
	})
	require.NoError(t, err)
	return inst
}

// CountInstallations возвращает число установок владельца.
func (f *TestDataFactory) CountInstallations(t *testing.T, ownerID int64) int {
	t.Helper()
	var count int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM installations WHERE user_id = $1`, ownerID).Scan(&count)
	require.NoError(t, err)
	return count
}

// CountReports возвращает число исторических отчётов владельца.
func (f *TestDataFactory) CountReports(t *testing.T, ownerID int64) int {
	t.Helper()
	var count int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM historical_reports WHERE user_id = $1`, ownerID).Scan(&count)
	require.NoError(t, err)
	return count
}

func summarize(selected []models.Installation) models.Report {
	r := models.Report{NumInstallations: len(selected)}
	for _, inst := range selected {
		r.TotalCommission += inst.Commission
		r.Snapshot = append(r.Snapshot, models.SnapshotOf(inst))
	}
	return r
}
