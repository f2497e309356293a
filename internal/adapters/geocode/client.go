package geocode

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"weatherly/internal/domain"
	"weatherly/internal/platform/httpx"
	"weatherly/internal/platform/obs"
	"weatherly/internal/ports"

	"golang.org/x/sync/singleflight"
)

const (
	defaultRetryDelay      = 200 * time.Millisecond
	defaultFallbackTimeout = 6 * time.Second

	// primaryAttempts bounds calls to the primary reverse provider: the
	// first try plus one retry after a transport failure or empty answer.
	primaryAttempts = 2
)

// SearchMemo remembers forward-search results for the lifetime of the
// process. Keys are built by the client.
type SearchMemo interface {
	Get(key string) ([]domain.PlaceRecord, bool)
	Put(key string, results []domain.PlaceRecord)
}

// Client implements ports.Geocoder using Open-Meteo for search and primary
// reverse lookups and Nominatim as the reverse fallback.
//
// It coordinates:
//   - Pure URL building (Endpoints)
//   - Retry of the primary reverse provider with a fixed delay
//   - Fallback to the secondary provider under a bounded timeout
//   - Per-provider circuit breaking (httpx)
//   - Collapsing of concurrent identical reverse lookups
//
// The client is safe for concurrent use.
type Client struct {
	openMeteo       *httpx.Client
	nominatim       *httpx.Client
	endpoints       Endpoints
	language        string
	retryDelay      time.Duration
	fallbackTimeout time.Duration
	memo            SearchMemo
	inflight        singleflight.Group

	session   *http.Client
	userAgent string
}

var _ ports.Geocoder = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.session = h }
}

func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang = strings.TrimSpace(lang); lang != "" {
			c.language = lang
		}
	}
}

// WithUserAgent sets the agent sent to both providers. Nominatim's usage
// policy rejects anonymous clients.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func WithFallbackTimeout(d time.Duration) Option {
	return func(c *Client) { c.fallbackTimeout = d }
}

func WithSearchMemo(m SearchMemo) Option {
	return func(c *Client) { c.memo = m }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoints:       DefaultEndpoints(),
		language:        DefaultLanguage,
		retryDelay:      defaultRetryDelay,
		fallbackTimeout: defaultFallbackTimeout,
		session:         &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.openMeteo = httpx.New(domain.ProviderOpenMeteo, c.session, c.userAgent)
	c.nominatim = httpx.New(domain.ProviderNominatim, c.session, c.userAgent)

	return c
}

func (c *Client) Endpoints() Endpoints { return c.endpoints }

func (c *Client) Language() string { return c.language }

// Search queries the forward provider with the raw query. Zero matches is an
// empty slice; transport failures surface as *domain.NetworkError and
// non-2xx answers as *domain.ProviderError.
func (c *Client) Search(ctx context.Context, query string) (_ []domain.PlaceRecord, err error) {
	defer obs.Time(ctx, "geocode.Search")(&err)

	key := c.language + "|" + domain.NormalizeLabel(query)
	if c.memo != nil {
		if hit, ok := c.memo.Get(key); ok {
			return hit, nil
		}
	}

	results, err := c.searchOpenMeteo(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	if c.memo != nil {
		c.memo.Put(key, results)
	}

	return results, nil
}

// Reverse resolves coordinates to a place, walking the provider chain.
// It returns nil, nil once every provider is exhausted; the only error it
// reports is cancellation of ctx.
//
// Concurrent calls for the same coordinates share one lookup, bound to the
// context of the first caller.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*domain.PlaceRecord, error) {
	key := domain.Coordinates{Lat: lat, Lon: lon}.Key()

	v, err, _ := c.inflight.Do(key, func() (any, error) {
		return c.reverse(ctx, lat, lon)
	})
	if err != nil {
		return nil, err
	}

	place, _ := v.(*domain.PlaceRecord)
	if place == nil {
		return nil, nil
	}
	out := *place
	return &out, nil
}

func (c *Client) reverse(ctx context.Context, lat, lon float64) (_ *domain.PlaceRecord, err error) {
	defer obs.Time(ctx, "geocode.Reverse")(&err)

	place, err := c.reversePrimary(ctx, lat, lon)
	if err != nil || place != nil {
		return place, err
	}

	return c.reverseFallback(ctx, lat, lon)
}

// reversePrimary retries once after a transport failure or an empty answer.
// A non-2xx status or an undecodable body exhausts the provider at once.
func (c *Client) reversePrimary(ctx context.Context, lat, lon float64) (*domain.PlaceRecord, error) {
	for attempt := 1; attempt <= primaryAttempts; attempt++ {
		place, err := c.reverseOpenMeteo(ctx, lat, lon)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err == nil && place != nil {
			return place, nil
		}
		if err != nil && !domain.IsNetworkError(err) {
			log.Printf("op=geocode.reversePrimary attempt=%d exhausted err=%v", attempt, err)
			return nil, nil
		}
		if attempt == primaryAttempts {
			break
		}

		if err := c.wait(ctx); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

func (c *Client) reverseFallback(ctx context.Context, lat, lon float64) (*domain.PlaceRecord, error) {
	fctx, cancel := context.WithTimeout(ctx, c.fallbackTimeout)
	defer cancel()

	place, err := c.reverseNominatim(fctx, lat, lon)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("op=geocode.reverseFallback exhausted err=%v", err)
		return nil, nil
	}

	return place, nil
}

func (c *Client) wait(ctx context.Context) error {
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
