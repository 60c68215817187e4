package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/htmltext"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
)

// buildPage переводит сырые вакансии страницы в записи.
// Невалидные элементы пропускаются с предупреждением и учитываются в report.Skipped.
func (s *Service) buildPage(ctx context.Context, page int, items []models.RawVacancy, report *IngestReport) []models.Vacancy {
	const op = "service/convert/buildPage"

	lg := log.From(ctx)
	out := make([]models.Vacancy, 0, len(items))

	for i, raw := range items {
		v, err := s.buildOne(raw)
		if err != nil {
			report.Skipped++
			lg.Warn("vacancy_skipped",
				slog.String("op", op),
				slog.Int("page", page),
				slog.Int("index", i),
				slog.String("err", err.Error()),
			)
			continue
		}
		out = append(out, v)
	}

	report.Built += len(out)

	return out
}

func (s *Service) buildOne(raw models.RawVacancy) (models.Vacancy, error) {
	m, err := vacancy.FromRaw(raw)
	if err != nil {
		return models.Vacancy{}, err
	}

	if !s.cfg.HH.KeepHighlight {
		stripMarkup(m)
	}
	blankToNil(m)

	return vacancy.New(m)
}

// blankToNil заменяет пустой или пробельный сниппет на null: hh.ru присылает такие
// фрагменты, а текстовый атрибут вакансии не может быть пустым.
func blankToNil(m models.Mapping) {
	for _, f := range []models.Field{models.FieldRequirement, models.FieldResponsibility} {
		if text, ok := m[f.Name()].(string); ok && strings.TrimSpace(text) == "" {
			m[f.Name()] = nil
		}
	}
}

// stripMarkup убирает HTML-разметку (<highlighttext> и т.п.) из сниппета.
// Пустой после очистки текст становится null; при ошибке разбора значение остаётся как есть.
func stripMarkup(m models.Mapping) {
	for _, f := range []models.Field{models.FieldRequirement, models.FieldResponsibility} {
		text, ok := m[f.Name()].(string)
		if !ok {
			continue
		}

		clean, err := htmltext.Strip(text)
		if err != nil {
			continue
		}

		if clean == "" {
			m[f.Name()] = nil
			continue
		}
		m[f.Name()] = clean
	}
}
