package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/cache"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/config"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/hh"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/metrics"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/redact"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/service"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/catalog"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/jsonfile"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/mongo"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/postgres"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/xlsx"
)

// app — собранные зависимости процесса.
type app struct {
	cfg *config.Config
	log *slog.Logger

	registry *prometheus.Registry
	svc      *service.Service
	files    *catalog.Catalog
	// Основное хранилище: файл по умолчанию в каталоге или БД.
	store storage.VacancyStorage

	closers []func()
}

// newApp поднимает источник (hh.ru + опциональный кэш Redis), метрики, сервис и хранилище.
// При ошибке уже открытые ресурсы закрываются.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
		files:    catalog.New(cfg.Storage.Dir),
	}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.registry)

	var source service.Source = hh.New(cfg.HH.BaseURL,
		hh.WithHTTPClient(&http.Client{Timeout: cfg.Timeouts.Request}),
		hh.WithUserAgent(cfg.HH.UserAgent),
		hh.WithMinInterval(cfg.HH.MinInterval),
	)

	if cfg.Cache.RedisURL != "" {
		pages, err := cache.NewRedisStore(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Error("redis_connect_failed",
				slog.String("url", redact.URL(cfg.Cache.RedisURL)),
				slog.String("err", err.Error()),
			)
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = pages.Close() })

		source = cache.NewSource(source, pages, cfg.Cache.TTL, cfg.Cache.Prefix, m)
		log.Info("page_cache_enabled",
			slog.String("url", redact.URL(cfg.Cache.RedisURL)),
			slog.Duration("ttl", cfg.Cache.TTL),
		)
	}

	a.svc = service.New(source, *cfg, service.WithMetrics(m))

	if a.store, err = a.openStore(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// openStore открывает основное хранилище по storage.backend.
func (a *app) openStore(ctx context.Context) (storage.VacancyStorage, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendPostgres:
		st, err := postgres.New(ctx, a.cfg.Storage.PostgresURL)
		if err != nil {
			a.log.Error("postgres_connect_failed",
				slog.String("url", redact.URL(a.cfg.Storage.PostgresURL)),
				slog.String("err", err.Error()),
			)
			return nil, err
		}
		a.closers = append(a.closers, st.Close)
		a.log.Info("postgres_connected", slog.String("url", redact.URL(a.cfg.Storage.PostgresURL)))
		return st, nil

	case config.BackendMongo:
		st, err := mongo.New(ctx, a.cfg.Storage.MongoURL)
		if err != nil {
			a.log.Error("mongo_connect_failed",
				slog.String("url", redact.URL(a.cfg.Storage.MongoURL)),
				slog.String("err", err.Error()),
			)
			return nil, err
		}
		a.closers = append(a.closers, st.Close)
		a.log.Info("mongo_connected", slog.String("url", redact.URL(a.cfg.Storage.MongoURL)))
		return st, nil

	default:
		name := fileName(a.cfg.Storage.DefaultFile)
		a.log.Info("file_storage", slog.String("path", filepath.Join(a.files.Dir(), name)))
		return a.files.Open(name)
	}
}

// fileName дописывает .json к имени без поддерживаемого расширения.
func fileName(name string) string {
	switch filepath.Ext(name) {
	case jsonfile.Ext, xlsx.Ext:
		return name
	default:
		return jsonfile.WithExt(name)
	}
}

// output возвращает хранилище для -out: файл каталога или основное хранилище.
func (a *app) output(out string) (storage.VacancyStorage, error) {
	if out == "" {
		return a.store, nil
	}

	name := fileName(out)
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("-out must be a file name inside %s, got %q", a.files.Dir(), out)
	}

	return a.files.Open(name)
}

// close освобождает ресурсы в обратном порядке.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
