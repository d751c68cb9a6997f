// Package print отдаёт печатную HTML-форму текущего журнала, упорядоченного
// по дате установки.
package print

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/export"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler формирует печатную форму.
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
// @Summary Печатная форма текущего журнала
// @Tags Installations
// @Produce  html
// @Success 200 {string} string "HTML"
// @Security BearerAuth
// @Router /installations/print [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.installation.print"
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
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.RenderLive(&buf, session.Username, live); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeHTML)
	_, _ = buf.WriteTo(w)
}
