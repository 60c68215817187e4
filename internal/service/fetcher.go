package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/metrics"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/scheduler"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
)

// Размер страницы, если в конфиге не задан.
const defaultPageSize = 100

// IngestReport — итог одного прохода выгрузки.
type IngestReport struct {
	RunID   string
	Keyword string
	// Сколько страниц получено.
	Pages int
	// Сколько сырых элементов пришло.
	Fetched int
	// Сколько записей прошло валидацию.
	Built int
	// Сколько элементов отброшено (нет обязательных частей, невалидные поля).
	Skipped int
	// Сколько записей совпало по id с уже полученными в этом проходе.
	Duplicates int
}

// Fetch выгружает вакансии по ключевому слову постранично.
//
// Особенности:
//   - maxPages <= 0 -> cfg.HH.MaxPages;
//   - цикл останавливается на неполной странице, на More == false или по maxPages;
//   - невалидные элементы пропускаются, повторы по id внутри прохода отбрасываются;
//   - ошибка страницы прерывает цикл; уже собранные записи возвращаются вместе с ней.
//
// Ошибки:
//   - ErrEmptyKeyword — пустое ключевое слово;
//   - ErrInvalidArgument — не задано количество страниц;
//   - ошибки источника — обёрнутые и прокинуты наверх.
func (s *Service) Fetch(ctx context.Context, keyword string, maxPages int) ([]models.Vacancy, IngestReport, error) {
	const op = "service/fetcher/Fetch"

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, IngestReport{}, fmt.Errorf("%s: %w", op, ErrEmptyKeyword)
	}

	if maxPages <= 0 {
		maxPages = s.cfg.HH.MaxPages
	}
	if maxPages <= 0 {
		return nil, IngestReport{}, fmt.Errorf("%s: max pages: %w", op, ErrInvalidArgument)
	}

	report := IngestReport{RunID: uuid.NewString(), Keyword: keyword}
	ctx = log.WithRun(ctx, report.RunID, keyword)

	lg := log.From(ctx)
	lg.Info("fetch_start",
		slog.String("op", op),
		slog.Int("max_pages", maxPages),
	)

	vs, err := s.fetchPages(ctx, keyword, maxPages, &report)

	s.metrics.Records(metrics.ResultBuilt, report.Built)
	s.metrics.Records(metrics.ResultSkipped, report.Skipped)
	s.metrics.Records(metrics.ResultDuplicate, report.Duplicates)
	s.metrics.RunFinished(err, time.Now())

	if err != nil {
		lg.Warn("fetch_aborted",
			slog.String("op", op),
			slog.Int("pages", report.Pages),
			slog.Int("kept", len(vs)),
			slog.String("err", err.Error()),
		)
		return vs, report, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("fetch_done",
		slog.String("op", op),
		slog.Int("pages", report.Pages),
		slog.Int("fetched", report.Fetched),
		slog.Int("built", report.Built),
		slog.Int("skipped", report.Skipped),
		slog.Int("duplicates", report.Duplicates),
	)

	return vs, report, nil
}

func (s *Service) fetchPages(ctx context.Context, keyword string, maxPages int, report *IngestReport) ([]models.Vacancy, error) {
	pageSize := s.cfg.HH.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var out []models.Vacancy

	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		p, err := s.source.FetchPage(ctx, PageRequest{
			Keyword:  keyword,
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			s.metrics.FetchFailed()
			return out, fmt.Errorf("page %d: %w", page, err)
		}

		s.metrics.PageFetched()
		report.Pages++
		report.Fetched += len(p.Items)

		built := s.buildPage(ctx, page, p.Items, report)
		before := len(out)
		out = vacancy.MergeWithoutDuplicates(out, built)
		report.Duplicates += len(built) - (len(out) - before)

		if len(p.Items) < pageSize || !p.More {
			break
		}
	}

	return out, nil
}

// Ingest выгружает вакансии и дописывает их в хранилище без дубликатов.
// При ошибке источника сохраняется то, что успели получить, а ошибка возвращается.
func (s *Service) Ingest(ctx context.Context, st storage.VacancyStorage, keyword string, maxPages int) (IngestReport, error) {
	const op = "service/fetcher/Ingest"

	vs, report, fetchErr := s.Fetch(ctx, keyword, maxPages)
	if len(vs) == 0 {
		return report, fetchErr
	}

	if err := s.Save(ctx, st, vs); err != nil {
		return report, errors.Join(fetchErr, fmt.Errorf("%s: %w", op, err))
	}

	return report, fetchErr
}

// IngestAll выполняет Ingest для каждого ключевого слова по очереди.
// Ошибка одного слова не прерывает остальные; все ошибки объединяются.
func (s *Service) IngestAll(ctx context.Context, st storage.VacancyStorage, keywords []string) ([]IngestReport, error) {
	const op = "service/fetcher/IngestAll"

	if len(keywords) == 0 {
		return nil, fmt.Errorf("%s: no keywords: %w", op, ErrInvalidArgument)
	}

	lg := log.From(ctx)

	reports := make([]IngestReport, 0, len(keywords))
	var errs []error

	for _, kw := range keywords {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		report, err := s.Ingest(ctx, st, kw, 0)
		reports = append(reports, report)
		if err != nil {
			lg.Warn("ingest_keyword_error",
				slog.String("op", op),
				slog.String("keyword", kw),
				slog.String("err", err.Error()),
			)
			errs = append(errs, err)
		}
	}

	return reports, errors.Join(errs...)
}

// StartWatch запускает периодическую выгрузку по cfg.Watch.Keywords с расписанием cfg.Watch.Schedule.
//
// Особенности:
//   - первый проход выполняется сразу;
//   - пересекающиеся проходы не запускаются;
//   - останавливается по ctx.
func (s *Service) StartWatch(ctx context.Context, st storage.VacancyStorage) error {
	const op = "service/fetcher/StartWatch"

	keywords := s.cfg.Watch.Keywords
	if len(keywords) == 0 {
		return fmt.Errorf("%s: no keywords configured: %w", op, ErrInvalidArgument)
	}

	lg := log.From(ctx)
	lg.Info("watch_start",
		slog.String("op", op),
		slog.Int("keywords", len(keywords)),
		slog.String("schedule", s.cfg.Watch.Schedule),
	)

	err := scheduler.Run(ctx, s.cfg.Watch.Schedule, func(ctx context.Context) {
		if _, err := s.IngestAll(ctx, st, keywords); err != nil {
			lg.Warn("watch_tick_error",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("watch_stop", slog.String("op", op))

	return nil
}
