package commissionledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/commission-ledger/internal/cache"
	"github.com/magabrotheeeer/commission-ledger/internal/config"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/jwt"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/commission-ledger/internal/metrics"
	"github.com/magabrotheeeer/commission-ledger/internal/migrations"
	"github.com/magabrotheeeer/commission-ledger/internal/services/archive"
	"github.com/magabrotheeeer/commission-ledger/internal/services/auth"
	"github.com/magabrotheeeer/commission-ledger/internal/services/ledger"
	"github.com/magabrotheeeer/commission-ledger/internal/services/report"
	"github.com/magabrotheeeer/commission-ledger/internal/storage/repository"
)

// App держит HTTP-сервер и ресурсы, которые нужно закрыть при остановке.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher
}

// New подключает хранилища, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "commissionledger.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("schema is up to date", slog.Uint64("version", uint64(version)))

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	var publisher archive.Publisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.amqpConn = conn
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
		publisher = app.publisher
		logger.Info("report events enabled", slog.String("exchange", cfg.Exchange))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Services{
		Auth:     auth.NewService(db, cacheRedis, jwtMaker, logger),
		Ledger:   ledger.NewService(db, m, logger, cfg.DefaultCommissionPercent),
		Archive:  archive.NewService(db, publisher, m, logger),
		Report:   report.NewService(db),
		DB:       db,
		Metrics:  m,
		Gatherer: registry,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
