// service содержит бизнес-логику агрегатора: выгрузку вакансий из источника
// и операции над сохранёнными коллекциями.
package service

import (
	"errors"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/config"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/metrics"
)

var (
	// ErrInvalidArgument - некорректные входные аргументы.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyKeyword — пустое ключевое слово поиска.
	ErrEmptyKeyword = errors.New("empty keyword")
)

// Service — описывает бизнес-логику агрегатора вакансий.
type Service struct {
	source  Source
	cfg     config.Config
	metrics *metrics.Metrics
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics подключает счётчики Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New создает новый экземпляр Service.
func New(source Source, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		source: source,
		cfg:    cfg,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
