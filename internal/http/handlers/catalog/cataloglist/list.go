// Package cataloglist отдаёт каталог тарифных планов для формы ввода установки.
package cataloglist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/commission-ledger/internal/catalog"
	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
)

// Handler отдаёт каталог и процент комиссии по умолчанию.
type Handler struct {
	log            *slog.Logger
	defaultPercent float64
}

// New создает новый Handler.
func New(log *slog.Logger, defaultPercent float64) *Handler {
	return &Handler{log: log, defaultPercent: defaultPercent}
}

// ServeHTTP godoc
// @Summary Каталог планов
// @Tags Catalog
// @Produce  json
// @Success 200 {object} response.Response
// @Router /catalog [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"
	h.log.Debug("catalog requested",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"categories":                 catalog.Categories(),
		"default_commission_percent": h.defaultPercent,
	}))
}
