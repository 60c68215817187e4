package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/config"
	apihttp "github.com/pribylovaa/go-vacancy-aggregator/internal/http"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/http/handlers"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/shell"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// Режимы запуска.
const (
	modeShell = "shell"
	modeFetch = "fetch"
	modeServe = "serve"
	modeWatch = "watch"
)

// connectTimeout — дедлайн на подключение к БД и Redis при старте.
const connectTimeout = 10 * time.Second

type flags struct {
	configPath string
	mode       string
	keyword    string
	out        string
	pages      int
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.StringVar(&f.mode, "mode", modeShell, "run mode: shell, fetch, serve or watch")
	flag.StringVar(&f.keyword, "keyword", "", "search keyword for -mode=fetch")
	flag.StringVar(&f.out, "out", "", "file name in storage dir for -mode=fetch (default: configured storage)")
	flag.IntVar(&f.pages, "pages", 0, "max pages per search (default: hh.max_pages)")
	flag.Parse()

	cfg := config.MustLoad(f.configPath)

	log := setupLogger(cfg.Env, logOutput(f.mode))
	slog.SetDefault(log)
	log.Info("starting vacancies", "env", cfg.Env, "mode", f.mode)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(rootCtx, cfg, log, f)
	rootCancel()
	if err != nil {
		log.Error("run_failed", slog.String("mode", f.mode), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("service_stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, f flags) error {
	switch f.mode {
	case modeShell, modeFetch, modeServe, modeWatch:
	default:
		return fmt.Errorf("unknown mode %q", f.mode)
	}
	if f.mode == modeFetch && f.keyword == "" {
		return fmt.Errorf("-keyword is required for -mode=%s", modeFetch)
	}

	initCtx, initCancel := context.WithTimeout(ctx, connectTimeout)
	a, err := newApp(initCtx, cfg, log)
	initCancel()
	if err != nil {
		return err
	}
	defer a.close()

	switch f.mode {
	case modeFetch:
		return runFetch(ctx, a, f)
	case modeServe:
		return runServe(ctx, a)
	case modeWatch:
		return a.svc.StartWatch(ctx, a.store)
	default:
		// Чтение stdin не прерывается отменой ctx, поэтому сеанс ждём в отдельной горутине.
		done := make(chan error, 1)
		go func() {
			done <- shell.New(a.svc, a.files, cfg.Storage.DefaultFile, f.pages, os.Stdin, os.Stdout).Run(ctx)
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return nil
		}
	}
}

// runFetch — разовая выгрузка по ключевому слову с дозаписью в хранилище.
func runFetch(ctx context.Context, a *app, f flags) error {
	st, err := a.output(f.out)
	if err != nil {
		return err
	}

	report, err := a.svc.Ingest(ctx, st, f.keyword, f.pages)

	fmt.Printf("keyword=%q pages=%d fetched=%d built=%d skipped=%d duplicates=%d\n",
		report.Keyword, report.Pages, report.Fetched, report.Built, report.Skipped, report.Duplicates)

	return err
}

// runServe поднимает read-only HTTP API, /metrics и health-пробы.
// Если заданы watch.keywords, параллельно работает периодическая выгрузка.
func runServe(ctx context.Context, a *app) error {
	log := a.log

	apiHandler := apihttp.NewRouter(handlers.New(a.svc, a.files, a.store), apihttp.Options{
		Logger:         log,
		Timeout:        a.cfg.Timeouts.Request,
		AllowedOrigins: a.cfg.HTTP.CORSOrigins,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	mux.Handle("/", apiHandler)

	httpAddr := a.cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return err
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	watchDone := make(chan struct{})
	if len(a.cfg.Watch.Keywords) > 0 {
		go func() {
			defer close(watchDone)
			if err := a.svc.StartWatch(ctx, a.store); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("watch_start_failed", slog.String("err", err.Error()))
			}
		}()
	} else {
		close(watchDone)
	}

	atomic.StoreInt32(&ready, 1)
	log.Info("api_ready")

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	select {
	case <-watchDone:
	case <-shutdownCtx.Done():
		log.Warn("watch_stop_timeout")
	}

	return serveErr
}

// logOutput — в интерактивном режиме логи уходят в stderr, чтобы не мешать меню.
func logOutput(mode string) io.Writer {
	if mode == modeShell {
		return os.Stderr
	}
	return os.Stdout
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
