// log хранит request/run-scoped логгер в контексте: HTTP-мидлвары кладут
// логгер с request_id, сборщик вакансий — с run_id и keyword.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}

// With дополняет логгер из контекста атрибутами и кладёт результат в новый контекст.
func With(ctx context.Context, args ...any) context.Context {
	return Into(ctx, From(ctx).With(args...))
}

// WithRun помечает все записи одного прохода по hh.ru: run_id и поисковый запрос.
// Пустой runID не добавляется.
func WithRun(ctx context.Context, runID, keyword string) context.Context {
	attrs := make([]any, 0, 2)
	if runID != "" {
		attrs = append(attrs, slog.String("run_id", runID))
	}
	attrs = append(attrs, slog.String("keyword", keyword))

	return With(ctx, attrs...)
}
