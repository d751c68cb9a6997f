// Package metrics содержит Prometheus-метрики сервиса: HTTP-запросы и
// доменные счётчики журнала установок.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commission_ledger"

// Metrics хранит все зарегистрированные коллекторы.
type Metrics struct {
	requests              *prometheus.CounterVec
	duration              *prometheus.HistogramVec
	installationsCreated  prometheus.Counter
	reportsArchived       prometheus.Counter
	installationsArchived prometheus.Counter
}

// New регистрирует коллекторы в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route and method",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		installationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "installations_created_total",
			Help:      "Number of installations recorded",
		}),
		reportsArchived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "reports_archived_total",
			Help:      "Number of historical reports created by archiving a period",
		}),
		installationsArchived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "installations_archived_total",
			Help:      "Number of installations moved into historical reports",
		}),
	}
}

// InstallationCreated увеличивает счётчик созданных установок.
func (m *Metrics) InstallationCreated() {
	m.installationsCreated.Inc()
}

// ReportArchived учитывает созданный отчёт и количество заархивированных установок.
func (m *Metrics) ReportArchived(installations int) {
	m.reportsArchived.Inc()
	m.installationsArchived.Add(float64(installations))
}

// Middleware считает запросы и их длительность. В метку route попадает
// шаблон маршрута chi, а не сырой путь, чтобы id не раздували кардинальность.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
