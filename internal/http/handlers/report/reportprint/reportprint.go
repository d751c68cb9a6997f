// Package reportprint отдаёт печатную форму исторического отчёта.
package reportprint

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/export"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler формирует печатную форму отчёта.
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
// @Summary Печатная форма исторического отчёта
// @Tags Reports
// @Produce  html
// @Param id path int true "ID отчёта"
// @Success 200 {string} string "HTML"
// @Security BearerAuth
// @Router /reports/{id}/print [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.print"
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
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, err := h.service.Historical(r.Context(), session.UserID, id)
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	case err != nil:
		log.Error("failed to get report", sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.RenderReport(&buf, session.Username, report); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeHTML)
	_, _ = buf.WriteTo(w)
}
