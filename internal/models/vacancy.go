package models

// Field — перечисление известных атрибутов вакансии.
// Используется вместо строковых ключей при выборе валидатора.
type Field int

const (
	FieldID Field = iota
	FieldName
	FieldLocation
	FieldSalaryFrom
	FieldSalaryTo
	FieldSalaryString
	FieldPublishedAt
	FieldURL
	FieldEmployer
	FieldExperience
	FieldRequirement
	FieldResponsibility
)

// Fields — все атрибуты в каноническом порядке (порядок колонок/ключей при записи).
var Fields = []Field{
	FieldID,
	FieldName,
	FieldLocation,
	FieldSalaryFrom,
	FieldSalaryTo,
	FieldSalaryString,
	FieldPublishedAt,
	FieldURL,
	FieldEmployer,
	FieldExperience,
	FieldRequirement,
	FieldResponsibility,
}

var fieldNames = [...]string{
	FieldID:             "id",
	FieldName:           "name",
	FieldLocation:       "location",
	FieldSalaryFrom:     "salary_from",
	FieldSalaryTo:       "salary_to",
	FieldSalaryString:   "salary_string",
	FieldPublishedAt:    "published_at",
	FieldURL:            "url",
	FieldEmployer:       "name_employer",
	FieldExperience:     "experience",
	FieldRequirement:    "requirement",
	FieldResponsibility: "responsibility",
}

// Name возвращает ключ атрибута в плоском представлении.
func (f Field) Name() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return ""
	}

	return fieldNames[f]
}

func (f Field) String() string { return f.Name() }

// Mapping — плоское представление вакансии на границе хранилища:
// ключи совпадают с Field.Name(), nil означает отсутствующее значение.
type Mapping map[string]any

// Vacancy — нормализованная вакансия.
// Все поля опциональны: nil означает отсутствие значения.
// После создания через vacancy.New значение не изменяется.
type Vacancy struct {
	// Идентификатор вакансии у провайдера (ключ дедупликации).
	ID *int64
	// Название позиции.
	Name *string
	// Город/регион.
	Location *string
	// Нижняя граница зарплаты.
	SalaryFrom *float64
	// Верхняя граница зарплаты.
	SalaryTo *float64
	// Готовая строка с вилкой ("From X to Y" и т.п.).
	SalaryString *string
	// Дата публикации в формате провайдера, не разбирается.
	PublishedAt *string
	// Ссылка на вакансию.
	URL *string
	// Название работодателя.
	Employer *string
	// Требуемый опыт.
	Experience *string
	// Требования (фрагмент описания).
	Requirement *string
	// Обязанности (фрагмент описания).
	Responsibility *string
}
