package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
)

// Save дописывает вакансии в хранилище, пропуская id, которые там уже есть.
func (s *Service) Save(ctx context.Context, st storage.VacancyStorage, vs []models.Vacancy) error {
	const op = "service/queries/Save"

	lg := log.From(ctx)

	if err := st.AppendWithoutDuplicates(ctx, vacancy.ToStorage(vs)); err != nil {
		lg.Error("save_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("save_done",
		slog.String("op", op),
		slog.Int("items", len(vs)),
	)

	return nil
}

// Overwrite полностью заменяет содержимое хранилища.
func (s *Service) Overwrite(ctx context.Context, st storage.VacancyStorage, vs []models.Vacancy) error {
	const op = "service/queries/Overwrite"

	if err := st.WriteAll(ctx, vacancy.ToStorage(vs)); err != nil {
		log.From(ctx).Error("overwrite_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Load читает хранилище и восстанавливает записи.
// Записи, не прошедшие валидацию, пропускаются и попадают в отчёт.
func (s *Service) Load(ctx context.Context, st storage.VacancyStorage) ([]models.Vacancy, vacancy.BuildReport, error) {
	const op = "service/queries/Load"

	lg := log.From(ctx)

	items, err := st.ReadAll(ctx)
	if err != nil {
		lg.Error("load_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, vacancy.BuildReport{}, fmt.Errorf("%s: %w", op, err)
	}

	vs, report := vacancy.FromMappings(items)
	for _, be := range report.Errors {
		lg.Warn("stored_vacancy_skipped",
			slog.String("op", op),
			slog.Int("index", be.Index),
			slog.String("err", be.Err.Error()),
		)
	}

	lg.Debug("load_done",
		slog.String("op", op),
		slog.Int("built", report.Built),
		slog.Int("skipped", report.Skipped),
	)

	return vs, report, nil
}

// Clear удаляет все записи хранилища.
func (s *Service) Clear(ctx context.Context, st storage.VacancyStorage) error {
	const op = "service/queries/Clear"

	if err := st.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("storage_cleared", slog.String("op", op))

	return nil
}

// Top возвращает n вакансий с наибольшей зарплатой.
//
// Ошибки:
//   - ErrInvalidArgument — n <= 0.
func (s *Service) Top(vs []models.Vacancy, n int) ([]models.Vacancy, error) {
	const op = "service/queries/Top"

	top, err := vacancy.TopBySalary(vs, n)
	if err != nil {
		if errors.Is(err, vacancy.ErrInvalidArgument) {
			return nil, fmt.Errorf("%s: n=%d: %w", op, n, ErrInvalidArgument)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return top, nil
}

// Filter оставляет вакансии, в тексте которых встречаются все слова query.
// Пустой запрос возвращает коллекцию без изменений.
func (s *Service) Filter(vs []models.Vacancy, query string) []models.Vacancy {
	return vacancy.FilterByKeywords(vs, SplitKeywords(query))
}

// SplitKeywords разбивает строку запроса по пробелам и запятым.
func SplitKeywords(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}
