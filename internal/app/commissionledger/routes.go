// Package commissionledger собирает HTTP-приложение журнала установок.
package commissionledger

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// описание API для Swagger UI
	_ "github.com/magabrotheeeer/commission-ledger/docs"

	"github.com/magabrotheeeer/commission-ledger/internal/config"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/auth/loginpage"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/catalog/cataloglist"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/health"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/installation/create"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/installation/export"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/installation/list"
	installationprint "github.com/magabrotheeeer/commission-ledger/internal/http/handlers/installation/print"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/installation/read"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/installation/remove"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/installation/update"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/report/reportarchive"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/report/reportexport"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/report/reportlist"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/report/reportprint"
	"github.com/magabrotheeeer/commission-ledger/internal/http/handlers/report/reportread"
	"github.com/magabrotheeeer/commission-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/commission-ledger/internal/metrics"
	"github.com/magabrotheeeer/commission-ledger/internal/services/archive"
	"github.com/magabrotheeeer/commission-ledger/internal/services/auth"
	"github.com/magabrotheeeer/commission-ledger/internal/services/ledger"
	"github.com/magabrotheeeer/commission-ledger/internal/services/report"
)

// Services объединяет зависимости, нужные обработчикам.
type Services struct {
	Auth     *auth.Service
	Ledger   *ledger.Service
	Archive  *archive.Service
	Report   *report.Service
	DB       health.Pinger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		s.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst))
			r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		})
		r.Get("/catalog", cataloglist.New(logger, cfg.DefaultCommissionPercent).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)

			r.Get("/installations", list.New(logger, s.Report).ServeHTTP)
			r.Post("/installations", create.New(logger, s.Ledger).ServeHTTP)
			// статические пути раньше параметризованных
			r.Get("/installations/print", installationprint.New(logger, s.Report).ServeHTTP)
			r.Get("/installations/export", export.New(logger, s.Report).ServeHTTP)
			r.Get("/installations/{id}", read.New(logger, s.Ledger).ServeHTTP)
			r.Put("/installations/{id}", update.New(logger, s.Ledger).ServeHTTP)
			r.Delete("/installations/{id}", remove.New(logger, s.Ledger).ServeHTTP)

			r.Post("/reports", reportarchive.New(logger, s.Archive).ServeHTTP)
			r.Get("/reports", reportlist.New(logger, s.Report).ServeHTTP)
			r.Get("/reports/{id}", reportread.New(logger, s.Report).ServeHTTP)
			r.Get("/reports/{id}/print", reportprint.New(logger, s.Report).ServeHTTP)
			r.Get("/reports/{id}/export", reportexport.New(logger, s.Report).ServeHTTP)
		})
	})

	r.Get(middlewarectx.LoginPath, loginpage.New(logger, "/api/v1/login", "/api/v1/installations/print").ServeHTTP)
	r.Get("/health", health.New(logger, s.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
