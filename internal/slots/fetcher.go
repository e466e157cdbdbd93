package slots

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/metrics"
)

const (
	responseBodyLimit int64 = 4 << 20
	errorBodyLimit    int64 = 1024
)

// FetchError reports a non-2xx answer from the slot endpoint.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch timeslots (%d)", e.StatusCode)
}

// FetchOptions controls a single slot fetch.
type FetchOptions struct {
	// Date filters the listing to one day (YYYY-MM-DD). Empty lists every date.
	Date string
	// Force bypasses the cache.
	Force bool
}

// Fetcher retrieves raw slots from the upstream endpoint through a Cache.
type Fetcher struct {
	httpClient *http.Client
	endpoint   *url.URL
	cache      *Cache
	metrics    *metrics.SlotMetrics
	logg       *logger.Logger
}

// FetcherOption configures optional fetcher behavior.
type FetcherOption func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

func WithMetrics(m *metrics.SlotMetrics) FetcherOption {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

func WithLogger(logg *logger.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logg = logg
	}
}

// NewFetcher builds a fetcher for endpoint backed by cache.
func NewFetcher(endpoint *url.URL, cache *Cache, opts ...FetcherOption) (*Fetcher, error) {
	if endpoint == nil {
		return nil, fmt.Errorf("slot endpoint required")
	}
	if cache == nil {
		return nil, fmt.Errorf("slot cache required")
	}
	f := &Fetcher{
		endpoint:   endpoint,
		cache:      cache,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Fetch returns the raw slot list for opts.Date, serving a fresh cached copy
// unless opts.Force is set. Cancelling ctx aborts the request, and a result
// that arrives after cancellation is discarded without touching the cache.
func (f *Fetcher) Fetch(ctx context.Context, opts FetchOptions) ([]RawSlot, error) {
	key := cacheKey(opts.Date)
	if !opts.Force {
		if data, ok := f.cache.Get(key); ok {
			f.metrics.CacheHit()
			return data, nil
		}
	}
	f.metrics.CacheMiss()

	started := time.Now()
	data, err := f.request(ctx, opts.Date)
	f.metrics.ObserveFetch(fetchOutcome(err), time.Since(started))
	if err != nil {
		return nil, err
	}
	// a superseded fetch must not overwrite the entry its successor stored
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	f.cache.Put(key, data)
	if f.logg != nil {
		ctx = f.logg.WithFields(ctx, map[string]any{"slot_key": key, "slot_count": len(data)})
		f.logg.Debug(ctx, "slots.fetched")
	}
	return data, nil
}

// Invalidate clears the cache so the next fetch reaches the network.
func (f *Fetcher) Invalidate() {
	f.cache.Invalidate()
}

func (f *Fetcher) request(ctx context.Context, date string) ([]RawSlot, error) {
	target := *f.endpoint
	if date != "" {
		q := target.Query()
		q.Set("date", date)
		target.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build slot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute slot request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		fetchErr := &FetchError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fetchErr, fetchErr.Error()).WithDetails(map[string]any{
			"status": resp.StatusCode,
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read slot response")
	}

	data, err := DecodeResponse(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode slot response")
	}
	return data, nil
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return "status_error"
	}
	return "error"
}
