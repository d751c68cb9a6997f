// Package reportread возвращает исторический отчёт вместе со снимком установок.
package reportread

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler обрабатывает запрос отчёта по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение исторического отчёта.
type Service interface {
	Historical(ctx context.Context, ownerID, reportID int64) (*models.Report, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Исторический отчёт
// @Tags Reports
// @Produce  json
// @Param id path int true "ID отчёта"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Чужой отчёт"
// @Failure 404 {object} response.ErrorResponse "Отчёт не найден"
// @Security BearerAuth
// @Router /reports/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.read"
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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("invalid report id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid report id"))
		return
	}

	report, err := h.service.Historical(r.Context(), session.UserID, id)
	if err != nil {
		log.Log(r.Context(), response.LogLevel(err), "failed to get report", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"report": report,
	}))
}
