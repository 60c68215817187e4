// metrics — счётчики Prometheus для выгрузки вакансий.
//
// Все методы безопасны для nil-получателя: сервис без метрик просто не считает.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vacancies"

// Результаты обработки записей.
const (
	ResultBuilt     = "built"
	ResultSkipped   = "skipped"
	ResultDuplicate = "duplicate"
)

// Metrics — набор метрик одного процесса.
type Metrics struct {
	pages       prometheus.Counter
	fetchErrors prometheus.Counter
	records     *prometheus.CounterVec
	runs        *prometheus.CounterVec
	lastSuccess prometheus.Gauge
	cache       *prometheus.CounterVec
}

// New регистрирует метрики в reg. nil означает prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		pages: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Pages successfully fetched from the vacancy source.",
		}),
		fetchErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed page requests.",
		}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Fetched vacancies by processing result.",
		}, []string{"result"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Fetch runs by status.",
		}, []string{"status"}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful fetch run.",
		}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_total",
			Help:      "Page cache lookups by outcome.",
		}, []string{"outcome"}),
	}
}

// PageFetched учитывает успешно полученную страницу.
func (m *Metrics) PageFetched() {
	if m == nil {
		return
	}
	m.pages.Inc()
}

// FetchFailed учитывает неудачный запрос страницы.
func (m *Metrics) FetchFailed() {
	if m == nil {
		return
	}
	m.fetchErrors.Inc()
}

// Records добавляет количество записей по результату (ResultBuilt и т.д.).
func (m *Metrics) Records(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.records.WithLabelValues(result).Add(float64(n))
}

// RunFinished учитывает завершение прохода выгрузки.
func (m *Metrics) RunFinished(err error, at time.Time) {
	if m == nil {
		return
	}
	if err != nil {
		m.runs.WithLabelValues("error").Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.lastSuccess.Set(float64(at.Unix()))
}

// CacheLookup учитывает обращение к кэшу страниц: "hit", "miss" или "error".
func (m *Metrics) CacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues(outcome).Inc()
}
