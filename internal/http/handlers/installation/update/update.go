// Package update реализует HTTP-обработчик редактирования установки.
//
// Запись пересчитывается по каталогу и перезаписывается целиком. Если запись
// принадлежит другому пользователю, возвращается 403 и данные не меняются.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Handler обрабатывает HTTP-запросы на обновление установки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления.
type Service interface {
	Update(ctx context.Context, ownerID, id int64, in models.InstallationInput) (*models.Installation, error)
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
// @Summary Обновить установку
// @Tags Installations
// @Accept  json
// @Produce  json
// @Param id path int true "ID установки"
// @Param request body models.InstallationInput true "Новые данные установки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 403 {object} response.ErrorResponse "Установка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Установка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /installations/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.installation.update"
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
		log.Info("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.InstallationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	inst, err := h.service.Update(r.Context(), session.UserID, id, req)
	if err != nil {
		log.Log(r.Context(), response.LogLevel(err), "failed to update installation", slog.Int64("id", id), sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("installation updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"installation": inst,
	}))
}
