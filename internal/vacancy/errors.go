package vacancy

import (
	"errors"
	"fmt"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
)

var (
	// ErrValidation — значение атрибута не прошло валидацию, вакансия не создана.
	ErrValidation = errors.New("validation failed")
	// ErrMissingField — в сыром объекте провайдера нет обязательного вложенного объекта.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidArgument — некорректный аргумент операции над коллекцией.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError описывает атрибут, на котором упала сборка вакансии.
type ValidationError struct {
	Field  models.Field
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s (got %T %v)", e.Field.Name(), e.Reason, e.Value, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MappingError — ошибка разбора сырого объекта провайдера.
type MappingError struct {
	// Путь до отсутствующего/битого ключа, например "employer".
	Path string
	Err  error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map raw vacancy: %s: %v", e.Path, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
