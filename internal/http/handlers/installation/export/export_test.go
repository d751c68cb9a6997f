package export

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	xlsx "github.com/magabrotheeeer/commission-ledger/internal/lib/export"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) LivePrintable(ctx context.Context, ownerID int64) (*models.LiveReport, error) {
	args := m.Called(ctx, ownerID)
	live, _ := args.Get(0).(*models.LiveReport)
	return live, args.Error(1)
}

func TestExportHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	svc := new(MockService)
	svc.On("LivePrintable", mock.Anything, int64(1)).Return(&models.LiveReport{
		Installations:   []models.Installation{{ID: 1, ClientLogin: "joao", InstalledOn: "2025-03-10", Commission: 15}},
		TotalCommission: 15,
		Count:           1,
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installations/export", nil)
	req = req.WithContext(middlewarectx.WithSession(req.Context(), &models.Session{UserID: 1}))
	w := httptest.NewRecorder()

	New(logger, svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsx.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	client, err := f.GetCellValue("Sheet1", "C3")
	require.NoError(t, err)
	assert.Equal(t, "joao", client)
	svc.AssertExpectations(t)
}
