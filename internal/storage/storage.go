// storage определяет контракт хранилища вакансий.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
)

var (
	// ErrNotFound — файл хранилища не найден в каталоге.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedFormat — расширение файла не поддерживается.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

// VacancyStorage — хранилище плоских представлений вакансий.
//
// Контракт одинаков для всех реализаций:
//   - ReadAll для отсутствующего/битого файла возвращает пустой срез без ошибки;
//   - WriteAll полностью перезаписывает содержимое;
//   - AppendWithoutDuplicates = ReadAll + vacancy.MergeWithoutDuplicates по id + WriteAll;
//   - Clear эквивалентен WriteAll(nil).
type VacancyStorage interface {
	ReadAll(ctx context.Context) ([]models.Mapping, error)
	WriteAll(ctx context.Context, items []models.Mapping) error
	AppendWithoutDuplicates(ctx context.Context, items []models.Mapping) error
	Clear(ctx context.Context) error
}

// Storage — хранилище с освобождаемыми ресурсами (пулы соединений БД).
type Storage interface {
	VacancyStorage
	Close()
}

// AppendMerged — общая реализация AppendWithoutDuplicates поверх ReadAll и WriteAll.
func AppendMerged(ctx context.Context, s VacancyStorage, items []models.Mapping) error {
	existing, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}

	return s.WriteAll(ctx, vacancy.MergeWithoutDuplicates(existing, items))
}
