// Package create реализует HTTP-обработчик добавления установки в журнал.
//
// Handler принимает JSON с планом, логином клиента, датой и процентом комиссии,
// валидирует его и передаёт в сервис журнала. Цена и комиссия считаются по
// каталогу на стороне сервиса.
package create

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

// Handler управляет HTTP-запросами на создание установок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис журнала установок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания установки.
type Service interface {
	Create(ctx context.Context, ownerID int64, in models.InstallationInput) (*models.Installation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить установку
// @Description Добавляет установку в текущий журнал пользователя. Комиссия по умолчанию 15%.
// @Tags Installations
// @Accept  json
// @Produce  json
// @Param request body models.InstallationInput true "Данные установки"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Неизвестный план"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /installations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.installation.create"
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

	var req models.InstallationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Debug("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	inst, err := h.service.Create(r.Context(), session.UserID, req)
	if err != nil {
		log.Log(r.Context(), response.LogLevel(err), "failed to create installation", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("installation created", slog.Int64("id", inst.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"installation": inst,
	}))
}
