// Package loginpage отдаёт страницу входа для браузера. Сюда ведёт редирект
// middleware аутентификации, сама проверка пароля идёт через POST /api/v1/login.
package loginpage

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
)

//go:embed templates/login.html
var files embed.FS

var page = template.Must(template.ParseFS(files, "templates/login.html"))

// Handler отдаёт страницу входа.
type Handler struct {
	log      *slog.Logger
	loginAPI string
	next     string
}

// New создает Handler. loginAPI: адрес JSON-входа, next: страница после входа.
func New(log *slog.Logger, loginAPI, next string) *Handler {
	return &Handler{log: log, loginAPI: loginAPI, next: next}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.loginpage"

	var buf bytes.Buffer
	err := page.Execute(&buf, struct{ LoginAPI, Next string }{h.loginAPI, h.next})
	if err != nil {
		h.log.Error("failed to render login page",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
