// Package reportexport отдаёт исторический отчёт файлом XLSX.
package reportexport

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/export"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler формирует выгрузку отчёта.
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
// @Summary Выгрузка исторического отчёта в XLSX
// @Tags Reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "ID отчёта"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /reports/{id}/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.export"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("session not found in context")
		http.Redirect(w, r, middlewarectx.LoginPath, http.StatusSeeOther)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
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

	var buf bytes.Buffer
	if err := export.WriteReportXLSX(&buf, report); err != nil {
		log.Error("failed to build spreadsheet", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	filename := fmt.Sprintf("relatorio_%s_%s.xlsx", report.PeriodStart, report.PeriodEnd)
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	_, _ = buf.WriteTo(w)
}
