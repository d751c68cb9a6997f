// Package middlewarectx содержит HTTP middleware сервиса: проверку сессии и
// ограничение частоты запросов.
//
// JWTMiddleware берёт токен из заголовка Authorization (Bearer) или из cookie
// сессии, проверяет его через сервис аутентификации и кладёт сессию в контекст.
// Если сессии нет, JSON-клиент получает 401, а браузер перенаправляется на /login.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User: ключ для имени пользователя в контексте
	User Key = "username"
	// UserID: ключ для идентификатора пользователя в контексте
	UserID Key = "user_id"
	// Session: ключ для *models.Session в контексте
	Session Key = "session"
)

// CookieName: имя cookie, в которой браузер хранит токен сессии.
const CookieName = "session_token"

// LoginPath: адрес, на который перенаправляется браузер без сессии.
const LoginPath = "/login"

// Authenticator проверяет токен и возвращает сессию.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// JWTMiddleware возвращает middleware, который требует действующую сессию.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := tokenFromRequest(r)
			if token == "" {
				log.Debug("no session token")
				unauthenticated(w, r)
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, models.ErrUnauthenticated) {
					log.Info("invalid or revoked session", sl.Err(err))
					unauthenticated(w, r)
					return
				}
				log.Error("failed to check session", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}

			ctx := WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession кладёт сессию и её поля в контекст.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	ctx = context.WithValue(ctx, Session, session)
	ctx = context.WithValue(ctx, UserID, session.UserID)
	return context.WithValue(ctx, User, session.Username)
}

// SessionFrom достаёт сессию из контекста.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(Session).(*models.Session)
	return s, ok && s != nil && s.UserID != 0
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// WantsHTML сообщает, что клиент: браузер, ожидающий страницу.
func WantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	if WantsHTML(r) {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("unauthorized"))
}
