// Package reportlist возвращает список исторических отчётов пользователя.
package reportlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler обрабатывает запрос списка отчётов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение списка отчётов.
type Service interface {
	ListHistorical(ctx context.Context, ownerID int64) ([]models.Report, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Исторические отчёты
// @Tags Reports
// @Produce  json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /reports [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("session not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	reports, err := h.service.ListHistorical(r.Context(), session.UserID)
	if err != nil {
		log.Error("failed to list reports", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reports": reports,
	}))
}
