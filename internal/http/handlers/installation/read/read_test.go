package read

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

func (m *MockService) Get(ctx context.Context, ownerID, id int64) (*models.Installation, error) {
	args := m.Called(ctx, ownerID, id)
	inst, _ := args.Get(0).(*models.Installation)
	return inst, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение",
			id:   "5",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(1), int64(5)).
					Return(&models.Installation{ID: 5, ClientLogin: "joao"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"client_login":"joao"`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "failed to decode id from url",
		},
		{
			name: "чужая установка",
			id:   "6",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(1), int64(6)).
					Return(nil, fmt.Errorf("ledger.Get: %w", models.ErrForbidden)).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "forbidden",
		},
		{
			name: "не найдена",
			id:   "7",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(1), int64(7)).
					Return(nil, fmt.Errorf("ledger.Get: %w", models.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/installations/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = middlewarectx.WithSession(ctx, &models.Session{UserID: 1})
			req = req.WithContext(ctx)
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
