// Package list реализует HTTP-обработчик текущего отчёта: журнал установок
// пользователя (новые первыми) и сумма комиссий.
package list

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

// Handler обрабатывает запрос текущего отчёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение текущего журнала.
type Service interface {
	Live(ctx context.Context, ownerID int64) (*models.LiveReport, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий журнал установок
// @Tags Installations
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Security BearerAuth
// @Router /installations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.installation.list"
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

	live, err := h.service.Live(r.Context(), session.UserID)
	if err != nil {
		log.Error("failed to list installations", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Debug("installations listed", slog.Int("count", live.Count))
	render.JSON(w, r, response.StatusOKWithData(live))
}
