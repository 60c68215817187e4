package vacancy

import (
	"cmp"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
)

// CompareBySalary сравнивает вакансии только по нижней границе зарплаты.
// Вакансия без salary_from меньше любой вакансии с указанной границей.
// Возвращает -1, 0 или +1.
func CompareBySalary(a, b models.Vacancy) int {
	switch {
	case a.SalaryFrom == nil && b.SalaryFrom == nil:
		return 0
	case a.SalaryFrom == nil:
		return -1
	case b.SalaryFrom == nil:
		return 1
	}

	return cmp.Compare(*a.SalaryFrom, *b.SalaryFrom)
}
