package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/config"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
	"github.com/pribylovaa/go-vacancy-aggregator/mocks"
)

// stubSource — Source для тестов fetcher.go: страницы и ошибки по номеру страницы.
type stubSource struct {
	mu    sync.Mutex
	pages map[string]map[int]Page
	errs  map[int]error
	reqs  []PageRequest
}

func (s *stubSource) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reqs = append(s.reqs, req)

	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if err, ok := s.errs[req.Page]; ok {
		return Page{}, err
	}

	return s.pages[req.Keyword][req.Page], nil
}

func (s *stubSource) requests() []PageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PageRequest(nil), s.reqs...)
}

func sourceFor(keyword string, pages ...Page) *stubSource {
	m := make(map[int]Page, len(pages))
	for i, p := range pages {
		m[i] = p
	}
	return &stubSource{pages: map[string]map[int]Page{keyword: m}}
}

func sp(s string) *string { return &s }

func fp(f float64) *float64 { return &f }

// rawVacancy — валидная вакансия hh.ru с заданным id.
func rawVacancy(id, name string, from *float64) models.RawVacancy {
	return models.RawVacancy{
		ID:           json.RawMessage(`"` + id + `"`),
		Name:         sp(name),
		Area:         &models.RawNamed{ID: "1", Name: sp("Москва")},
		Salary:       &models.RawSalary{From: from, Currency: "RUR"},
		PublishedAt:  sp("2024-05-01T10:00:00+0300"),
		AlternateURL: sp("https://hh.ru/vacancy/" + id),
		Employer:     &models.RawNamed{ID: "9", Name: sp("Acme")},
		Experience:   &models.RawNamed{ID: "noExperience", Name: sp("Нет опыта")},
		Snippet:      &models.RawSnippet{Requirement: sp("Знание Go"), Responsibility: sp("Писать код")},
	}
}

func newTestService(src Source, pageSize, maxPages int) *Service {
	return New(src, config.Config{
		HH: config.HHConfig{PageSize: pageSize, MaxPages: maxPages},
	})
}

func TestFetch_EmptyKeyword(t *testing.T) {
	t.Parallel()

	src := &stubSource{}
	svc := newTestService(src, 2, 5)

	_, _, err := svc.Fetch(context.Background(), "   ", 0)
	require.ErrorIs(t, err, ErrEmptyKeyword)
	require.Empty(t, src.requests())
}

func TestFetch_NoMaxPages(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubSource{}, 2, 0)

	_, _, err := svc.Fetch(context.Background(), "go", 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFetch_StopConditions(t *testing.T) {
	t.Parallel()

	full := func(ids ...string) Page {
		p := Page{More: true}
		for _, id := range ids {
			p.Items = append(p.Items, rawVacancy(id, "Go dev "+id, fp(100)))
		}
		return p
	}

	tests := []struct {
		name      string
		pages     []Page
		maxPages  int
		cfgPages  int
		wantReqs  int
		wantCount int
	}{
		{
			name:      "short page stops",
			pages:     []Page{full("1", "2"), full("3"), full("4", "5")},
			maxPages:  5,
			wantReqs:  2,
			wantCount: 3,
		},
		{
			name:      "more=false stops",
			pages:     []Page{{Items: full("1", "2").Items, More: false}, full("3", "4")},
			maxPages:  5,
			wantReqs:  1,
			wantCount: 2,
		},
		{
			name:      "max pages stops",
			pages:     []Page{full("1", "2"), full("3", "4"), full("5", "6")},
			maxPages:  2,
			wantReqs:  2,
			wantCount: 4,
		},
		{
			name:      "config max pages when caller passes zero",
			pages:     []Page{full("1", "2"), full("3", "4"), full("5", "6")},
			maxPages:  0,
			cfgPages:  1,
			wantReqs:  1,
			wantCount: 2,
		},
		{
			name:      "empty first page",
			pages:     []Page{{}},
			maxPages:  3,
			wantReqs:  1,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := sourceFor("go", tt.pages...)
			svc := newTestService(src, 2, tt.cfgPages)

			vs, report, err := svc.Fetch(context.Background(), " go ", tt.maxPages)
			require.NoError(t, err)
			require.Len(t, vs, tt.wantCount)
			require.Len(t, src.requests(), tt.wantReqs)
			require.Equal(t, tt.wantReqs, report.Pages)
			require.Equal(t, "go", report.Keyword)
			require.NotEmpty(t, report.RunID)

			for i, req := range src.requests() {
				require.Equal(t, PageRequest{Keyword: "go", Page: i, PageSize: 2}, req)
			}
		})
	}
}

func TestFetch_SkipsInvalidAndDuplicates(t *testing.T) {
	t.Parallel()

	noArea := rawVacancy("3", "No area", nil)
	noArea.Area = nil

	badURL := rawVacancy("4", "Bad url", nil)
	badURL.AlternateURL = sp("ftp://hh.ru/4")

	src := sourceFor("go",
		Page{Items: []models.RawVacancy{rawVacancy("1", "A", fp(100)), noArea, rawVacancy("2", "B", nil)}, More: true},
		Page{Items: []models.RawVacancy{badURL, rawVacancy("1", "A again", fp(500)), rawVacancy("5", "C", fp(50))}, More: true},
		Page{Items: []models.RawVacancy{rawVacancy("6", "D", nil)}},
	)
	svc := newTestService(src, 3, 10)

	vs, report, err := svc.Fetch(context.Background(), "go", 0)
	require.NoError(t, err)

	require.Equal(t, []int64{1, 2, 5, 6}, vacancy.IDs(vs))
	require.Equal(t, "A", *vs[0].Name, "первая запись с id побеждает")
	require.Equal(t, IngestReport{
		RunID:      report.RunID,
		Keyword:    "go",
		Pages:      3,
		Fetched:    7,
		Built:      5,
		Skipped:    2,
		Duplicates: 1,
	}, report)
}

func TestFetch_ErrorKeepsFetchedPages(t *testing.T) {
	t.Parallel()

	errUpstream := errors.New("upstream 503")

	src := sourceFor("go",
		Page{Items: []models.RawVacancy{rawVacancy("1", "A", nil), rawVacancy("2", "B", nil)}, More: true},
	)
	src.errs = map[int]error{1: errUpstream}
	svc := newTestService(src, 2, 5)

	vs, report, err := svc.Fetch(context.Background(), "go", 0)
	require.ErrorIs(t, err, errUpstream)
	require.Equal(t, []int64{1, 2}, vacancy.IDs(vs))
	require.Equal(t, 1, report.Pages)
}

func TestFetch_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := sourceFor("go", Page{Items: []models.RawVacancy{rawVacancy("1", "A", nil)}})
	svc := newTestService(src, 2, 5)

	_, _, err := svc.Fetch(ctx, "go", 0)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, src.requests())
}

func TestFetch_StripHighlight(t *testing.T) {
	t.Parallel()

	raw := rawVacancy("1", "A", nil)
	raw.Snippet = &models.RawSnippet{
		Requirement:    sp("Опыт <highlighttext>Go</highlighttext> от 3 лет"),
		Responsibility: sp("<highlighttext></highlighttext>"),
	}

	for _, strip := range []bool{true, false} {
		src := sourceFor("go", Page{Items: []models.RawVacancy{raw}})
		svc := New(src, config.Config{HH: config.HHConfig{PageSize: 2, MaxPages: 1, KeepHighlight: !strip}})

		vs, _, err := svc.Fetch(context.Background(), "go", 0)
		require.NoError(t, err)
		require.Len(t, vs, 1)

		if strip {
			require.Equal(t, "Опыт Go от 3 лет", *vs[0].Requirement)
			require.Nil(t, vs[0].Responsibility)
			continue
		}
		require.Equal(t, "Опыт <highlighttext>Go</highlighttext> от 3 лет", *vs[0].Requirement)
		require.Equal(t, "<highlighttext></highlighttext>", *vs[0].Responsibility)
	}
}

func TestFetch_BlankSnippetBecomesNull(t *testing.T) {
	t.Parallel()

	raw := rawVacancy("1", "A", nil)
	raw.Snippet = &models.RawSnippet{Requirement: sp("   "), Responsibility: sp("\t\n")}

	for _, keep := range []bool{false, true} {
		src := sourceFor("go", Page{Items: []models.RawVacancy{raw}})
		svc := New(src, config.Config{HH: config.HHConfig{PageSize: 2, MaxPages: 1, KeepHighlight: keep}})

		vs, report, err := svc.Fetch(context.Background(), "go", 0)
		require.NoError(t, err)
		require.Zero(t, report.Skipped, "keep=%v", keep)
		require.Len(t, vs, 1)
		require.Nil(t, vs[0].Requirement)
		require.Nil(t, vs[0].Responsibility)
	}
}

func TestIngest_SavesFetched(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockVacancyStorage(ctrl)

	src := sourceFor("go", Page{Items: []models.RawVacancy{rawVacancy("1", "A", fp(10)), rawVacancy("2", "B", nil)}})
	svc := newTestService(src, 5, 1)

	var saved []models.Mapping
	st.EXPECT().
		AppendWithoutDuplicates(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []models.Mapping) error {
			saved = items
			return nil
		})

	report, err := svc.Ingest(context.Background(), st, "go", 0)
	require.NoError(t, err)
	require.Equal(t, 2, report.Built)
	require.Equal(t, []int64{1, 2}, vacancy.IDs(saved))
	require.Equal(t, 10.0, saved[0]["salary_from"])
}

func TestIngest_PartialOnError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockVacancyStorage(ctrl)

	errUpstream := errors.New("upstream down")
	errDisk := errors.New("disk full")

	src := sourceFor("go", Page{Items: []models.RawVacancy{rawVacancy("1", "A", nil)}, More: true})
	src.errs = map[int]error{1: errUpstream}
	svc := newTestService(src, 1, 3)

	st.EXPECT().AppendWithoutDuplicates(gomock.Any(), gomock.Len(1)).Return(errDisk)

	_, err := svc.Ingest(context.Background(), st, "go", 0)
	require.ErrorIs(t, err, errUpstream)
	require.ErrorIs(t, err, errDisk)
}

func TestIngest_NothingFetched_SkipsSave(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockVacancyStorage(ctrl)

	src := &stubSource{errs: map[int]error{0: errors.New("boom")}}
	svc := newTestService(src, 1, 3)

	_, err := svc.Ingest(context.Background(), st, "go", 0)
	require.Error(t, err)
}

func TestIngestAll_ContinuesAfterError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockVacancyStorage(ctrl)

	src := &stubSource{pages: map[string]map[int]Page{
		"go":     {0: {Items: []models.RawVacancy{rawVacancy("1", "A", nil)}}},
		"python": {0: {Items: []models.RawVacancy{rawVacancy("2", "B", nil)}}},
	}}
	svc := newTestService(src, 5, 1)

	st.EXPECT().AppendWithoutDuplicates(gomock.Any(), gomock.Len(1)).Return(nil).Times(2)

	reports, err := svc.IngestAll(context.Background(), st, []string{"go", " ", "python"})
	require.ErrorIs(t, err, ErrEmptyKeyword)
	require.Len(t, reports, 3)
	require.Equal(t, 1, reports[0].Built)
	require.Equal(t, 1, reports[2].Built)

	_, err = svc.IngestAll(context.Background(), st, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStartWatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockVacancyStorage(ctrl)

	src := sourceFor("go", Page{Items: []models.RawVacancy{rawVacancy("1", "A", nil)}})
	svc := New(src, config.Config{
		HH:    config.HHConfig{PageSize: 5, MaxPages: 1},
		Watch: config.WatchConfig{Keywords: []string{"go"}, Schedule: "@hourly"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st.EXPECT().
		AppendWithoutDuplicates(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(context.Context, []models.Mapping) error {
			cancel()
			return nil
		})

	done := make(chan error, 1)
	go func() { done <- svc.StartWatch(ctx, st) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("StartWatch не завершился после отмены контекста")
	}
}

func TestStartWatch_NoKeywords(t *testing.T) {
	t.Parallel()

	svc := New(&stubSource{}, config.Config{Watch: config.WatchConfig{Schedule: "@hourly"}})

	err := svc.StartWatch(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
