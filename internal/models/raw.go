package models

import "encoding/json"

// RawVacancy — вакансия в формате ответа hh.ru (GET /vacancies, элемент items).
// Вложенные объекты — указатели: отсутствие ключа и null различаются только для salary.
type RawVacancy struct {
	ID           json.RawMessage `json:"id,omitempty"`
	Name         *string         `json:"name"`
	Area         *RawNamed       `json:"area"`
	Salary       *RawSalary      `json:"salary"`
	PublishedAt  *string         `json:"published_at"`
	AlternateURL *string         `json:"alternate_url"`
	Employer     *RawNamed       `json:"employer"`
	Experience   *RawNamed       `json:"experience"`
	Snippet      *RawSnippet     `json:"snippet"`
}

// RawNamed — справочное значение hh.ru (area, employer, experience).
type RawNamed struct {
	ID   string  `json:"id,omitempty"`
	Name *string `json:"name"`
}

// RawSalary — вилка зарплаты; любая из границ может быть null.
type RawSalary struct {
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
	Currency string   `json:"currency,omitempty"`
	Gross    *bool    `json:"gross,omitempty"`
}

// RawSnippet — фрагменты описания с подсветкой <highlighttext>.
type RawSnippet struct {
	Requirement    *string `json:"requirement"`
	Responsibility *string `json:"responsibility"`
}

// RawPage — страница ответа hh.ru.
type RawPage struct {
	Items   []RawVacancy `json:"items"`
	Found   int          `json:"found"`
	Pages   int          `json:"pages"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}
