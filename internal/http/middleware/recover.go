package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/go-vacancy-aggregator/internal/errors"
	logctx "github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
)

var errHandlerPanic = errors.New("handler panic")

// Recover перехватывает panic хендлера вакансий/файлов и отвечает 500/internal.
// Детали паники (reason, stack) идут только в лог. Если ответ уже начат,
// второй статус не пишется.
//
// Recover стоит снаружи Logging, поэтому логгер передаётся явно; nil — логгер из контекста.
func Recover(l *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				lg := l
				if lg == nil {
					lg = logctx.From(r.Context())
				}
				lg.LogAttrs(r.Context(), slog.LevelError, "handler_panic",
					slog.String("method", r.Method),
					slog.String("route", routeOf(r)),
					slog.String("path", r.URL.Path),
					slog.String("request_id", r.Header.Get(HeaderRequestID)),
					slog.Bool("responded", sw.wroteHeader()),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if !sw.wroteHeader() {
					apierrors.WriteError(sw, r, errHandlerPanic)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
