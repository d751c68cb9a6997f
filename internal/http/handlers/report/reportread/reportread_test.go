package reportread

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Historical(ctx context.Context, ownerID, reportID int64) (*models.Report, error) {
	args := m.Called(ctx, ownerID, reportID)
	report, _ := args.Get(0).(*models.Report)
	return report, args.Error(1)
}

func newRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middlewarectx.WithSession(ctx, &models.Session{UserID: 1})
	return req.WithContext(ctx)
}

func TestReportReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name: "отчёт найден",
			id:   "7",
			setupMock: func(m *MockService) {
				m.On("Historical", mock.Anything, int64(1), int64(7)).Return(&models.Report{
					ID:       7,
					UserID:   1,
					Snapshot: []models.SnapshotItem{{ClientLogin: "joao", Commission: 15}},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "чужой отчёт",
			id:   "8",
			setupMock: func(m *MockService) {
				m.On("Historical", mock.Anything, int64(1), int64(8)).
					Return(nil, fmt.Errorf("report.Historical: %w", models.ErrForbidden)).Once()
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "не найден",
			id:   "9",
			setupMock: func(m *MockService) {
				m.On("Historical", mock.Anything, int64(1), int64(9)).
					Return(nil, fmt.Errorf("report.Historical: %w", models.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, newRequest(tt.id))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"login_cliente":"joao"`)
			}
			svc.AssertExpectations(t)
		})
	}
}
