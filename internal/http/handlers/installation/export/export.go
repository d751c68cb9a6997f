// Package export отдаёт текущий журнал файлом XLSX.
package export

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
	xlsx "github.com/magabrotheeeer/commission-ledger/internal/lib/export"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler формирует выгрузку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение журнала в порядке дат.
type Service interface {
	LivePrintable(ctx context.Context, ownerID int64) (*models.LiveReport, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выгрузка текущего журнала в XLSX
// @Tags Installations
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Router /installations/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.installation.export"
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

	live, err := h.service.LivePrintable(r.Context(), session.UserID)
	if err != nil {
		log.Error("failed to load installations", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteLiveXLSX(&buf, live); err != nil {
		log.Error("failed to build spreadsheet", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsx.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename=relatorio_atual.xlsx")
	_, _ = buf.WriteTo(w)
}
