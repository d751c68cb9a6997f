// Package logout реализует HTTP-обработчик выхода: токен текущей сессии
// отзывается и cookie сессии очищается.
package logout

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

// Handler обрабатывает выход из системы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает отзыв сессии.
type Service interface {
	Logout(ctx context.Context, session *models.Session) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход из системы
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Security BearerAuth
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
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

	if err := h.service.Logout(r.Context(), session); err != nil {
		log.Error("failed to revoke session", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user logged out", slog.Int64("user_id", session.UserID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"logged_out": true,
	}))
}
