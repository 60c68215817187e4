// hh — клиент поиска вакансий API hh.ru (GET /vacancies).
package hh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/service"
)

const (
	// DefaultBaseURL — адрес публичного API.
	DefaultBaseURL = "https://api.hh.ru"
	// DefaultUserAgent — значение заголовка User-Agent по умолчанию.
	DefaultUserAgent = "HH-User-Agent"

	// Сколько байт тела ответа сохранять в FetchError.
	maxErrorBody = 512
)

// ErrFetch — источник вернул неуспешный статус или тело, которое не удалось разобрать.
var ErrFetch = errors.New("fetch failed")

// FetchError описывает неудачный запрос страницы.
type FetchError struct {
	Page int
	// HTTP-статус; 0, если ответ не получен.
	Status int
	// Начало тела ответа для диагностики.
	Body string
	// Причина: ошибка транспорта или декодирования.
	Err error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hh: page %d", e.Page)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status=%d", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": body=%q", e.Body)
	}
	return b.String()
}

// Unwrap позволяет проверять и ErrFetch, и исходную причину (например, context.Canceled).
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// Client реализует service.Source поверх HTTP API hh.ru.
//
// Запросы выполняются последовательно; limiter выдерживает минимальный
// интервал между ними. Повторов при ошибках нет.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

var _ service.Source = (*Client)(nil)

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт HTTP-клиент (таймауты, прокси и т.д.).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithUserAgent задаёт заголовок User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMinInterval задаёт минимальный интервал между запросами; d <= 0 отключает ожидание.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// New создаёт клиента. Пустой baseURL заменяется на DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchPage запрашивает страницу поиска.
//
// Ошибки:
//   - *FetchError (errors.Is(err, ErrFetch)) — транспорт, статус != 200, битый JSON.
func (c *Client) FetchPage(ctx context.Context, req service.PageRequest) (service.Page, error) {
	const op = "hh/client/FetchPage"

	lg := log.From(ctx)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return service.Page{}, &FetchError{Page: req.Page, Err: err}
		}
	}

	endpoint, err := c.pageURL(req)
	if err != nil {
		return service.Page{}, fmt.Errorf("%s: build_url: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return service.Page{}, fmt.Errorf("%s: new_request: %w", op, err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		lg.Warn("http_error",
			slog.String("op", op),
			slog.Int("page", req.Page),
			slog.String("err", err.Error()),
		)
		return service.Page{}, &FetchError{Page: req.Page, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_, _ = io.Copy(io.Discard, resp.Body)

		lg.Warn("http_status",
			slog.String("op", op),
			slog.Int("page", req.Page),
			slog.Int("status", resp.StatusCode),
		)
		return service.Page{}, &FetchError{
			Page:   req.Page,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var raw models.RawPage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return service.Page{}, &FetchError{
			Page:   req.Page,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode: %w", err),
		}
	}

	more := len(raw.Items) >= req.PageSize
	if raw.Pages > 0 {
		more = req.Page+1 < raw.Pages
	}

	lg.Debug("page_fetched",
		slog.String("op", op),
		slog.Int("page", req.Page),
		slog.Int("items", len(raw.Items)),
		slog.Int("found", raw.Found),
		slog.Bool("more", more),
	)

	return service.Page{Items: raw.Items, More: more}, nil
}

func (c *Client) pageURL(req service.PageRequest) (string, error) {
	u, err := url.Parse(c.baseURL + "/vacancies")
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("text", req.Keyword)
	q.Set("page", strconv.Itoa(req.Page))
	if req.PageSize > 0 {
		q.Set("per_page", strconv.Itoa(req.PageSize))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
