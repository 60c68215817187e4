package vacancy

import (
	"testing"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/stretchr/testify/require"
)

// Unit-тесты операций над коллекциями (collection.go, compare.go).

func mustNew(t *testing.T, m models.Mapping) models.Vacancy {
	t.Helper()

	v, err := New(m)
	require.NoError(t, err)
	return v
}

func withSalary(t *testing.T, id int, from any) models.Vacancy {
	t.Helper()

	return mustNew(t, models.Mapping{"id": id, "name": "Dev", "salary_from": from})
}

func TestCompareBySalary(t *testing.T) {
	t.Parallel()

	low := withSalary(t, 1, 100)
	high := withSalary(t, 2, 200)
	none := withSalary(t, 3, nil)

	require.Equal(t, -1, CompareBySalary(low, high))
	require.Equal(t, 1, CompareBySalary(high, low))
	require.Equal(t, 0, CompareBySalary(low, withSalary(t, 9, 100)))
	require.Equal(t, -1, CompareBySalary(none, low), "пустая зарплата меньше любой указанной")
	require.Equal(t, 1, CompareBySalary(withSalary(t, 4, 0), none))
	require.Equal(t, 0, CompareBySalary(none, withSalary(t, 5, nil)))
}

func TestIDs_VacanciesAndMappings(t *testing.T) {
	t.Parallel()

	vs := []models.Vacancy{withSalary(t, 3, 1), mustNew(t, models.Mapping{}), withSalary(t, 1, 1)}
	require.Equal(t, []int64{3, 0, 1}, IDs(vs))

	ms := []models.Mapping{{"id": "12"}, {"id": 7.0}, {"name": "no id"}, {"id": "x"}}
	require.Equal(t, []int64{12, 7, 0, 0}, IDs(ms))
}

func TestTopBySalary(t *testing.T) {
	t.Parallel()

	vs := []models.Vacancy{
		withSalary(t, 1, 100),
		withSalary(t, 2, nil),
		withSalary(t, 3, 300),
		withSalary(t, 4, 100),
		withSalary(t, 5, 200),
	}

	top, err := TopBySalary(vs, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 5, 1}, IDs(top))

	full, err := TopBySalary(vs, 10)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 5, 1, 4, 2}, IDs(full), "равные зарплаты сохраняют исходный порядок")

	again, err := TopBySalary(full, 10)
	require.NoError(t, err)
	require.Equal(t, IDs(full), IDs(again))

	require.Equal(t, []int64{1, 2, 3, 4, 5}, IDs(vs), "вход не должен меняться")
}

func TestTopBySalary_NonPositiveN(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		_, err := TopBySalary([]models.Vacancy{withSalary(t, 1, 1)}, n)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestTopBySalary_Empty(t *testing.T) {
	t.Parallel()

	top, err := TopBySalary(nil, 5)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestFilterByKeywords(t *testing.T) {
	t.Parallel()

	vs := []models.Vacancy{
		mustNew(t, models.Mapping{"id": 1, "name": "Python Developer", "requirement": "Django, SQL"}),
		mustNew(t, models.Mapping{"id": 2, "name": "Go Developer", "responsibility": "Write services in Go"}),
		mustNew(t, models.Mapping{"id": 3, "name": "Аналитик", "requirement": "Знание SQL"}),
		mustNew(t, models.Mapping{"id": 4}),
	}

	tests := []struct {
		name     string
		keywords []string
		want     []int64
	}{
		{name: "empty_list", keywords: nil, want: []int64{1, 2, 3, 4}},
		{name: "blank_words_ignored", keywords: []string{" ", ""}, want: []int64{1, 2, 3, 4}},
		{name: "case_insensitive", keywords: []string{"sql"}, want: []int64{1, 3}},
		{name: "all_required", keywords: []string{"python", "sql"}, want: []int64{1}},
		{name: "responsibility_searched", keywords: []string{"services"}, want: []int64{2}},
		{name: "cyrillic", keywords: []string{"АНАЛИТИК"}, want: []int64{3}},
		{name: "no_match", keywords: []string{"rust"}, want: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterByKeywords(vs, tt.keywords)
			require.Equal(t, tt.want, IDs(got))
		})
	}
}

func TestToStorage_KeepsAllKeys(t *testing.T) {
	t.Parallel()

	vs := []models.Vacancy{mustNew(t, models.Mapping{"id": 5, "url": "https://hh.ru/vacancy/5"})}
	ms := ToStorage(vs)
	require.Len(t, ms, 1)
	require.Len(t, ms[0], len(models.Fields))
	require.Equal(t, int64(5), ms[0]["id"])
	require.Equal(t, "https://hh.ru/vacancy/5", ms[0]["url"])

	v, ok := ms[0]["name"]
	require.True(t, ok)
	require.Nil(t, v)
}

func TestMergeWithoutDuplicates_Scenario(t *testing.T) {
	t.Parallel()

	existing := []models.Mapping{{"id": 1}, {"id": 7}}
	incoming := []models.Mapping{{"id": 2}, {"id": 7}}

	got := MergeWithoutDuplicates(existing, incoming)
	require.Equal(t, []models.Mapping{{"id": 1}, {"id": 7}, {"id": 2}}, got)
}

func TestMergeWithoutDuplicates_Properties(t *testing.T) {
	t.Parallel()

	existing := []models.Mapping{{"id": 3, "name": "old"}, {"id": "4"}}
	incoming := []models.Mapping{
		{"id": 3, "name": "new"},
		{"id": 5, "name": "first"},
		{"id": 5, "name": "second"},
		{"name": "no id"},
		{"id": 4.0},
		{"id": 6},
	}

	got := MergeWithoutDuplicates(existing, incoming)
	require.Equal(t, []int64{3, 4, 5, 0, 6}, IDs(got))
	require.Equal(t, "old", got[0]["name"], "элемент existing сохраняется")
	require.Equal(t, "first", got[2]["name"], "из incoming берётся первое вхождение")
}

func TestMergeWithoutDuplicates_Vacancies(t *testing.T) {
	t.Parallel()

	a := []models.Vacancy{withSalary(t, 1, 10)}
	b := []models.Vacancy{withSalary(t, 1, 20), withSalary(t, 2, 30)}

	got := MergeWithoutDuplicates(a, b)
	require.Equal(t, []int64{1, 2}, IDs(got))
	require.Equal(t, 10.0, *got[0].SalaryFrom)
}

func TestFromMappings_SkipsInvalid(t *testing.T) {
	t.Parallel()

	ms := []models.Mapping{
		{"id": 1, "name": "ok"},
		{"id": 2, "name": ""},
		{"id": 3, "url": "nope"},
		{"id": 4},
	}

	vs, report := FromMappings(ms)
	require.Equal(t, []int64{1, 4}, IDs(vs))
	require.Equal(t, 2, report.Built)
	require.Equal(t, 2, report.Skipped)
	require.Len(t, report.Errors, 2)
	require.Equal(t, 1, report.Errors[0].Index)
	require.ErrorIs(t, report.Errors[1].Err, ErrValidation)
}
