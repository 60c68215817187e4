package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/service"
)

// memStore — PageStore в памяти с возможностью вернуть ошибку.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = data
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Close() error { return nil }

// countingSource — service.Source, считающий обращения.
type countingSource struct {
	mu    sync.Mutex
	calls int
	page  service.Page
	err   error
}

func (c *countingSource) FetchPage(context.Context, service.PageRequest) (service.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.page, c.err
}

func samplePage() service.Page {
	name := "Go Developer"
	from := 1000.0
	return service.Page{
		Items: []models.RawVacancy{{
			ID:     json.RawMessage(`"42"`),
			Name:   &name,
			Salary: &models.RawSalary{From: &from, Currency: "RUR"},
		}},
		More: true,
	}
}

func TestSource_MissThenHit(t *testing.T) {
	t.Parallel()

	next := &countingSource{page: samplePage()}
	store := newMemStore()
	src := NewSource(next, store, time.Minute, "", nil)

	req := service.PageRequest{Keyword: "Go Developer", Page: 1, PageSize: 50}

	got, err := src.FetchPage(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, samplePage(), got)
	require.Equal(t, 1, next.calls)

	key := "hh:page:go+developer:50:1"
	require.Equal(t, key, src.Key(req))
	require.Contains(t, store.data, key)
	require.Equal(t, time.Minute, store.ttls[key])

	got, err = src.FetchPage(context.Background(), service.PageRequest{Keyword: " go developer ", Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.Equal(t, samplePage(), got)
	require.Equal(t, 1, next.calls, "второй запрос обслужен кэшем")
}

func TestSource_DifferentPagesDifferentKeys(t *testing.T) {
	t.Parallel()

	src := NewSource(&countingSource{}, newMemStore(), time.Minute, "p:", nil)

	a := src.Key(service.PageRequest{Keyword: "go", Page: 0, PageSize: 20})
	b := src.Key(service.PageRequest{Keyword: "go", Page: 1, PageSize: 20})
	c := src.Key(service.PageRequest{Keyword: "go", Page: 0, PageSize: 100})
	require.Equal(t, "p:go:20:0", a)
	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
}

func TestSource_StoreErrorsFallThrough(t *testing.T) {
	t.Parallel()

	next := &countingSource{page: samplePage()}
	store := newMemStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")

	src := NewSource(next, store, time.Minute, "", nil)

	for i := 0; i < 2; i++ {
		got, err := src.FetchPage(context.Background(), service.PageRequest{Keyword: "go"})
		require.NoError(t, err)
		require.Equal(t, samplePage(), got)
	}
	require.Equal(t, 2, next.calls)
}

func TestSource_MalformedEntryRefetched(t *testing.T) {
	t.Parallel()

	next := &countingSource{page: samplePage()}
	store := newMemStore()
	src := NewSource(next, store, time.Minute, "", nil)

	req := service.PageRequest{Keyword: "go"}
	store.data[src.Key(req)] = []byte("{not json")

	got, err := src.FetchPage(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, samplePage(), got)
	require.Equal(t, 1, next.calls)

	var cp cachedPage
	require.NoError(t, json.Unmarshal(store.data[src.Key(req)], &cp))
	require.True(t, cp.More)
}

func TestSource_NextErrorNotCached(t *testing.T) {
	t.Parallel()

	errUpstream := errors.New("403")
	next := &countingSource{err: errUpstream}
	store := newMemStore()
	src := NewSource(next, store, time.Minute, "", nil)

	_, err := src.FetchPage(context.Background(), service.PageRequest{Keyword: "go"})
	require.ErrorIs(t, err, errUpstream)
	require.Empty(t, store.data)
}
