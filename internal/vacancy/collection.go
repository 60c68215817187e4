package vacancy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
)

// Item — элементы коллекций, для которых определён id: собранные вакансии
// и их плоские представления.
type Item interface {
	models.Vacancy | models.Mapping
}

// IDOf возвращает id элемента и признак его наличия.
// Для Mapping id приводится по тем же правилам, что и в New.
func IDOf[T Item](item T) (int64, bool) {
	switch x := any(item).(type) {
	case models.Vacancy:
		if x.ID == nil {
			return 0, false
		}
		return *x.ID, true
	case models.Mapping:
		id, ok := toInt64(deref(x[models.FieldID.Name()]))
		if !ok || id <= 0 {
			return 0, false
		}
		return id, true
	}

	return 0, false
}

// IDs возвращает id элементов в исходном порядке; 0 — id отсутствует или некорректен.
func IDs[T Item](items []T) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		id, _ := IDOf(item)
		out = append(out, id)
	}

	return out
}

// TopBySalary возвращает n вакансий с наибольшей нижней границей зарплаты.
// Сортировка устойчивая: при равных зарплатах сохраняется исходный порядок.
// Входной срез не изменяется.
//
// Ошибки:
//   - ErrInvalidArgument — n <= 0.
func TopBySalary(vs []models.Vacancy, n int) ([]models.Vacancy, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top by salary: n=%d: %w", n, ErrInvalidArgument)
	}

	out := slices.Clone(vs)
	slices.SortStableFunc(out, func(a, b models.Vacancy) int {
		return CompareBySalary(b, a)
	})

	if n < len(out) {
		out = out[:n]
	}

	return out, nil
}

// FilterByKeywords оставляет вакансии, у которых каждое ключевое слово (без учёта регистра)
// входит в текст name + requirement + responsibility. Пустые слова пропускаются,
// пустой список оставляет коллекцию без изменений.
func FilterByKeywords(vs []models.Vacancy, keywords []string) []models.Vacancy {
	needles := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			needles = append(needles, strings.ToLower(kw))
		}
	}

	if len(needles) == 0 {
		return slices.Clone(vs)
	}

	out := make([]models.Vacancy, 0, len(vs))
	for _, v := range vs {
		text := strings.ToLower(strings.Join([]string{
			textOf(v.Name),
			textOf(v.Requirement),
			textOf(v.Responsibility),
		}, " "))

		if containsAll(text, needles) {
			out = append(out, v)
		}
	}

	return out
}

func textOf(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func containsAll(text string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(text, n) {
			return false
		}
	}

	return true
}

// ToMapping — обратное к New преобразование: все двенадцать ключей, nil для пустых атрибутов.
func ToMapping(v models.Vacancy) models.Mapping {
	return models.Mapping{
		models.FieldID.Name():             valueOrNil(v.ID),
		models.FieldName.Name():           valueOrNil(v.Name),
		models.FieldLocation.Name():       valueOrNil(v.Location),
		models.FieldSalaryFrom.Name():     valueOrNil(v.SalaryFrom),
		models.FieldSalaryTo.Name():       valueOrNil(v.SalaryTo),
		models.FieldSalaryString.Name():   valueOrNil(v.SalaryString),
		models.FieldPublishedAt.Name():    valueOrNil(v.PublishedAt),
		models.FieldURL.Name():            valueOrNil(v.URL),
		models.FieldEmployer.Name():       valueOrNil(v.Employer),
		models.FieldExperience.Name():     valueOrNil(v.Experience),
		models.FieldRequirement.Name():    valueOrNil(v.Requirement),
		models.FieldResponsibility.Name(): valueOrNil(v.Responsibility),
	}
}

// ToStorage переводит коллекцию в плоские представления для хранилища.
func ToStorage(vs []models.Vacancy) []models.Mapping {
	out := make([]models.Mapping, 0, len(vs))
	for _, v := range vs {
		out = append(out, ToMapping(v))
	}

	return out
}

// MergeWithoutDuplicates дописывает к existing элементы incoming с новыми id.
//
// Порядок: сначала existing целиком, затем новые элементы в порядке incoming.
// Повторы id внутри incoming схлопываются до первого вхождения.
// Элементы без id дубликатами не считаются и добавляются всегда.
func MergeWithoutDuplicates[T Item](existing, incoming []T) []T {
	seen := make(map[int64]struct{}, len(existing)+len(incoming))
	out := make([]T, 0, len(existing)+len(incoming))

	for _, item := range existing {
		if id, ok := IDOf(item); ok {
			seen[id] = struct{}{}
		}
		out = append(out, item)
	}

	for _, item := range incoming {
		if id, ok := IDOf(item); ok {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		out = append(out, item)
	}

	return out
}

// BuildReport — итог пакетной сборки вакансий.
type BuildReport struct {
	Built   int
	Skipped int
	// Ошибки пропущенных записей в порядке появления; индекс — позиция во входе.
	Errors []BuildError
}

// BuildError — ошибка сборки одной записи пакета.
type BuildError struct {
	Index int
	Err   error
}

// FromMappings собирает вакансии пакетом: битые записи пропускаются и попадают в отчёт.
func FromMappings(ms []models.Mapping) ([]models.Vacancy, BuildReport) {
	var report BuildReport
	out := make([]models.Vacancy, 0, len(ms))

	for i, m := range ms {
		v, err := New(m)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, BuildError{Index: i, Err: err})
			continue
		}

		report.Built++
		out = append(out, v)
	}

	return out, report
}

func valueOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}

	return *p
}
