package vacancy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
)

// SalaryNotSpecified — строка зарплаты, если провайдер не указал ни одной границы.
const SalaryNotSpecified = "Salary not specified"

// FromRaw переводит вакансию в формате hh.ru в плоское представление для New.
//
// Особенности:
//   - salary == null или обе границы null -> 0, 0, SalaryNotSpecified;
//   - только from -> "From X", только to -> "Up to Y", обе -> "From X to Y";
//   - отсутствие area/employer/experience/snippet — ошибка ErrMissingField,
//     значения по умолчанию не подставляются;
//   - id переносится как есть (строка или число), приведение делает New.
func FromRaw(raw models.RawVacancy) (models.Mapping, error) {
	id, err := rawID(raw.ID)
	if err != nil {
		return nil, &MappingError{Path: "id", Err: err}
	}

	if raw.Area == nil {
		return nil, &MappingError{Path: "area", Err: ErrMissingField}
	}
	if raw.Employer == nil {
		return nil, &MappingError{Path: "employer", Err: ErrMissingField}
	}
	if raw.Experience == nil {
		return nil, &MappingError{Path: "experience", Err: ErrMissingField}
	}
	if raw.Snippet == nil {
		return nil, &MappingError{Path: "snippet", Err: ErrMissingField}
	}

	from, to, salary := salaryFields(raw.Salary)

	return models.Mapping{
		models.FieldID.Name():             id,
		models.FieldName.Name():           strOrNil(raw.Name),
		models.FieldLocation.Name():       strOrNil(raw.Area.Name),
		models.FieldSalaryFrom.Name():     from,
		models.FieldSalaryTo.Name():       to,
		models.FieldSalaryString.Name():   salary,
		models.FieldPublishedAt.Name():    strOrNil(raw.PublishedAt),
		models.FieldURL.Name():            strOrNil(raw.AlternateURL),
		models.FieldEmployer.Name():       strOrNil(raw.Employer.Name),
		models.FieldExperience.Name():     strOrNil(raw.Experience.Name),
		models.FieldRequirement.Name():    strOrNil(raw.Snippet.Requirement),
		models.FieldResponsibility.Name(): strOrNil(raw.Snippet.Responsibility),
	}, nil
}

func salaryFields(s *models.RawSalary) (float64, float64, string) {
	switch {
	case s == nil || (s.From == nil && s.To == nil):
		return 0, 0, SalaryNotSpecified
	case s.To == nil:
		return *s.From, 0, "From " + formatAmount(*s.From)
	case s.From == nil:
		return 0, *s.To, "Up to " + formatAmount(*s.To)
	default:
		return *s.From, *s.To, fmt.Sprintf("From %s to %s", formatAmount(*s.From), formatAmount(*s.To))
	}
}

// formatAmount печатает сумму без экспоненты и лишних нулей: 100000, 1500.5.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// rawID возвращает строку, json.Number или nil для отсутствующего id.
func rawID(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}

	return n, nil
}

func strOrNil(p *string) any {
	if p == nil {
		return nil
	}

	return *p
}
