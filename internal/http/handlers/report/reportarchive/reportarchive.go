// Package reportarchive реализует закрытие периода: установки с датой в
// диапазоне переносятся в исторический отчёт и удаляются из журнала.
package reportarchive

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler обрабатывает запросы на архивирование периода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает архивирование периода.
type Service interface {
	ArchivePeriod(ctx context.Context, ownerID int64, start, end string) (*models.Report, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Закрыть период
// @Description Переносит установки за период в исторический отчёт. Если установок нет, отчёт не создаётся.
// @Tags Reports
// @Accept  json
// @Produce  json
// @Param request body models.PeriodRequest true "Границы периода (YYYY-MM-DD)"
// @Success 201 {object} response.Response "Отчёт создан"
// @Success 200 {object} response.Response "Нет установок за период"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /reports [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.archive"
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

	var req models.PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	report, err := h.service.ArchivePeriod(r.Context(), session.UserID, req.StartDate, req.EndDate)
	if err != nil {
		log.Log(r.Context(), response.LogLevel(err), "failed to archive period", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	if report == nil {
		log.Info("nothing to archive", slog.String("start", req.StartDate), slog.String("end", req.EndDate))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"archived":   false,
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
		}))
		return
	}

	log.Info("period archived", slog.Int64("report_id", report.ID), slog.Int("installations", report.NumInstallations))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"archived": true,
		"report":   report,
	}))
}
