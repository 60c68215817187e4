// vacancy содержит доменную логику над вакансиями: сборку и валидацию записи,
// перевод сырого ответа hh.ru в плоское представление и операции над коллекциями.
// Все функции пакета чистые и не выполняют I/O.
package vacancy

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
)

const (
	reasonWrongType   = "wrong type"
	reasonEmpty       = "empty string"
	reasonNegative    = "negative number"
	reasonNotPositive = "must be a positive integer"
	reasonBadURL      = "must start with http"
)

// fieldRule — валидатор атрибута и запись нормализованного значения в вакансию.
// validate возвращает пустую причину при успехе.
type fieldRule struct {
	validate func(v any) (any, string)
	assign   func(dst *models.Vacancy, v any)
}

// rules — таблица Field -> правило, индексируется перечислением models.Field.
var rules = [...]fieldRule{
	models.FieldID: {
		validate: validateID,
		assign:   func(dst *models.Vacancy, v any) { dst.ID = ptr(v.(int64)) },
	},
	models.FieldName:         textRule(func(dst *models.Vacancy, s *string) { dst.Name = s }),
	models.FieldLocation:     textRule(func(dst *models.Vacancy, s *string) { dst.Location = s }),
	models.FieldSalaryFrom:   salaryRule(func(dst *models.Vacancy, f *float64) { dst.SalaryFrom = f }),
	models.FieldSalaryTo:     salaryRule(func(dst *models.Vacancy, f *float64) { dst.SalaryTo = f }),
	models.FieldSalaryString: textRule(func(dst *models.Vacancy, s *string) { dst.SalaryString = s }),
	models.FieldPublishedAt:  textRule(func(dst *models.Vacancy, s *string) { dst.PublishedAt = s }),
	models.FieldURL: {
		validate: validateURL,
		assign:   func(dst *models.Vacancy, v any) { dst.URL = ptr(v.(string)) },
	},
	models.FieldEmployer:       textRule(func(dst *models.Vacancy, s *string) { dst.Employer = s }),
	models.FieldExperience:     textRule(func(dst *models.Vacancy, s *string) { dst.Experience = s }),
	models.FieldRequirement:    textRule(func(dst *models.Vacancy, s *string) { dst.Requirement = s }),
	models.FieldResponsibility: textRule(func(dst *models.Vacancy, s *string) { dst.Responsibility = s }),
}

func textRule(set func(*models.Vacancy, *string)) fieldRule {
	return fieldRule{
		validate: validateText,
		assign:   func(dst *models.Vacancy, v any) { set(dst, ptr(v.(string))) },
	}
}

func salaryRule(set func(*models.Vacancy, *float64)) fieldRule {
	return fieldRule{
		validate: validateSalary,
		assign:   func(dst *models.Vacancy, v any) { set(dst, ptr(v.(float64))) },
	}
}

// New собирает вакансию из плоского представления.
//
// Особенности:
//   - отсутствующий ключ и ключ со значением nil дают nil-атрибут, валидатор не вызывается;
//   - неизвестные ключи игнорируются;
//   - первая же ошибка валидации прерывает сборку целиком (*ValidationError).
func New(m models.Mapping) (models.Vacancy, error) {
	var v models.Vacancy

	for _, f := range models.Fields {
		raw, ok := m[f.Name()]
		if !ok {
			continue
		}

		raw = deref(raw)
		if raw == nil {
			continue
		}

		rule := rules[f]
		val, reason := rule.validate(raw)
		if reason != "" {
			return models.Vacancy{}, &ValidationError{Field: f, Value: raw, Reason: reason}
		}

		rule.assign(&v, val)
	}

	return v, nil
}

func validateID(v any) (any, string) {
	id, ok := toInt64(v)
	if !ok {
		if _, isBool := v.(bool); isBool {
			return nil, reasonWrongType
		}
		return nil, reasonNotPositive
	}

	if id <= 0 {
		return nil, reasonNotPositive
	}

	return id, ""
}

func validateText(v any) (any, string) {
	s, ok := v.(string)
	if !ok {
		return nil, reasonWrongType
	}

	if strings.TrimSpace(s) == "" {
		return nil, reasonEmpty
	}

	return s, ""
}

func validateSalary(v any) (any, string) {
	f, ok := toFloat64(v)
	if !ok {
		return nil, reasonWrongType
	}

	if f < 0 {
		return nil, reasonNegative
	}

	return f, ""
}

func validateURL(v any) (any, string) {
	s, ok := v.(string)
	if !ok {
		return nil, reasonWrongType
	}

	if !strings.HasPrefix(s, "http") {
		return nil, reasonBadURL
	}

	return s, ""
}

// toInt64 приводит идентификатор к int64.
// Строки принимаются только в десятичной записи ("12345"), дроби отвергаются.
func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return uintToInt64(uint64(x))
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return uintToInt64(x)
	case float32:
		return floatToInt64(float64(x))
	case float64:
		return floatToInt64(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

func uintToInt64(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}

	return int64(u), true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}

	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}

	return int64(f), true
}

// toFloat64 приводит число любого встроенного типа к float64; строки не принимаются.
func toFloat64(v any) (float64, bool) {
	var f float64

	switch x := v.(type) {
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// deref разворачивает указатели, которые встречаются в Mapping, собранных вручную.
func deref(v any) any {
	switch x := v.(type) {
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *float64:
		if x == nil {
			return nil
		}
		return *x
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case *int:
		if x == nil {
			return nil
		}
		return *x
	}

	return v
}

func ptr[T any](v T) *T { return &v }
