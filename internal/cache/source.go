package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/metrics"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/service"
)

// DefaultPrefix — префикс ключей, если не задан.
const DefaultPrefix = "hh:page:"

// cachedPage — формат страницы в кэше.
type cachedPage struct {
	Items []models.RawVacancy `json:"items"`
	More  bool                `json:"more"`
}

// Source — service.Source, который отдаёт страницы из кэша и кладёт туда свежие.
//
// Ошибки кэша не прерывают выгрузку: они логируются, и запрос уходит в next.
// Ошибки next не кэшируются.
type Source struct {
	next    service.Source
	store   PageStore
	ttl     time.Duration
	prefix  string
	metrics *metrics.Metrics
}

var _ service.Source = (*Source)(nil)

// NewSource оборачивает next кэшем store.
func NewSource(next service.Source, store PageStore, ttl time.Duration, prefix string, m *metrics.Metrics) *Source {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Source{
		next:    next,
		store:   store,
		ttl:     ttl,
		prefix:  prefix,
		metrics: m,
	}
}

// Key — ключ страницы: ключевое слово без учёта регистра, размер и номер страницы.
func (s *Source) Key(req service.PageRequest) string {
	kw := url.QueryEscape(strings.ToLower(strings.TrimSpace(req.Keyword)))
	return fmt.Sprintf("%s%s:%d:%d", s.prefix, kw, req.PageSize, req.Page)
}

// FetchPage отдаёт страницу из кэша или запрашивает её у next.
func (s *Source) FetchPage(ctx context.Context, req service.PageRequest) (service.Page, error) {
	const op = "cache/source/FetchPage"

	lg := log.From(ctx)
	key := s.Key(req)

	data, ok, err := s.store.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.CacheLookup("error")
		lg.Warn("cache_get_error",
			slog.String("op", op),
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
	case ok:
		var cp cachedPage
		if err := json.Unmarshal(data, &cp); err == nil {
			s.metrics.CacheLookup("hit")
			lg.Debug("cache_hit", slog.String("op", op), slog.String("key", key))
			return service.Page{Items: cp.Items, More: cp.More}, nil
		}
		s.metrics.CacheLookup("error")
		lg.Warn("cache_entry_malformed", slog.String("op", op), slog.String("key", key))
	default:
		s.metrics.CacheLookup("miss")
	}

	page, err := s.next.FetchPage(ctx, req)
	if err != nil {
		return service.Page{}, err
	}

	data, err = json.Marshal(cachedPage{Items: page.Items, More: page.More})
	if err != nil {
		lg.Warn("cache_encode_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return page, nil
	}

	if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
		lg.Warn("cache_set_error",
			slog.String("op", op),
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
	}

	return page, nil
}
