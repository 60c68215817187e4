package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/go-vacancy-aggregator/internal/errors"
	logctx "github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
)

// Timeout ограничивает обработку запроса: навешивает deadline, если его ещё нет.
// Хендлер, не успевший ничего записать до истечения deadline, получает за клиента
// 504/deadline_exceeded; каждое истечение пишется в лог с маршрутом.
// Значение <=0 делает мидлвар no-op.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
				r = r.WithContext(ctx)
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			responded := sw.wroteHeader()
			logctx.From(ctx).LogAttrs(ctx, slog.LevelWarn, "request_timeout",
				slog.String("method", r.Method),
				slog.String("route", routeOf(r)),
				slog.Duration("timeout", d),
				slog.Bool("responded", responded),
			)

			if !responded {
				apierrors.WriteError(sw, r, ctx.Err())
			}
		})
	}
}
