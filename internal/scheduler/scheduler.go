// scheduler — периодический запуск задач по cron-выражению (robfig/cron).
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
)

// ErrEmptySchedule — не задано расписание.
var ErrEmptySchedule = errors.New("empty schedule")

// Job — задача, получающая контекст планировщика.
type Job func(ctx context.Context)

// Run выполняет job сразу, затем по расписанию spec, пока не отменён ctx.
//
// Поддерживаются стандартные выражения из пяти полей и дескрипторы
// (@hourly, @every 30m). Запуск пропускается, если предыдущий ещё не завершён.
// После отмены ctx Run дожидается текущего запуска.
func Run(ctx context.Context, spec string, job Job) error {
	const op = "scheduler/Run"

	if spec == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptySchedule)
	}

	lg := log.From(ctx)
	logger := slogAdapter{lg: lg}

	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))

	wrapped := cron.FuncJob(func() { job(ctx) })

	entry, err := c.AddJob(spec, wrapped)
	if err != nil {
		return fmt.Errorf("%s: parse %q: %w", op, spec, err)
	}

	c.Start()
	lg.Info("scheduler_start",
		slog.String("op", op),
		slog.String("schedule", spec),
		slog.Time("next", c.Entry(entry).Next),
	)

	// Первый проход сразу, через ту же цепочку обёрток.
	c.Entry(entry).WrappedJob.Run()

	<-ctx.Done()

	<-c.Stop().Done()
	lg.Info("scheduler_stop", slog.String("op", op))

	return nil
}

// slogAdapter реализует cron.Logger поверх slog.
type slogAdapter struct {
	lg *slog.Logger
}

func (a slogAdapter) Info(msg string, keysAndValues ...any) {
	a.lg.Debug("cron_"+msg, keysAndValues...)
}

func (a slogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.lg.Error("cron_"+msg, append(keysAndValues, slog.String("err", err.Error()))...)
}
