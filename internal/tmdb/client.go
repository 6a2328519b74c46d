package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/vmunix/arrsync/internal/breaker"
	"github.com/vmunix/arrsync/internal/metrics"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = 24 * time.Hour

// ErrNotFound is returned when TMDB has no such resource.
var ErrNotFound = errors.New("not found in tmdb")

// Client is a TMDB API client. Responses are cached, identical concurrent
// requests are coalesced, and outgoing calls are rate limited.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *cache
	group      singleflight.Group
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps requests per second with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:   newCache(defaultCacheTTL),
		limiter: rate.NewLimiter(rate.Limit(20), 20),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cb = breaker.New[[]byte]("tmdb", breaker.DefaultConfig, c.logger, func(err error) bool {
		return err == nil || errors.Is(err, ErrNotFound)
	})
	return c
}

// Movie fetches movie metadata by TMDB ID.
func (c *Client) Movie(ctx context.Context, tmdbID int64) (*Movie, error) {
	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), nil, &movie); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", tmdbID, err)
	}
	return &movie, nil
}

// TVShow fetches series metadata, including seasons and external ids.
func (c *Client) TVShow(ctx context.Context, tmdbID int64) (*TVShow, error) {
	var show TVShow
	q := url.Values{"append_to_response": {"external_ids"}}
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d", tmdbID), q, &show); err != nil {
		return nil, fmt.Errorf("get tv show %d: %w", tmdbID, err)
	}
	return &show, nil
}

// FindByIMDB resolves an IMDb id ("tt0137523") to TMDB movies and series.
func (c *Client) FindByIMDB(ctx context.Context, imdbID string) (*FindResult, error) {
	return c.find(ctx, imdbID, "imdb_id")
}

// FindByTVDB resolves a TheTVDB id to TMDB movies and series.
func (c *Client) FindByTVDB(ctx context.Context, tvdbID int64) (*FindResult, error) {
	return c.find(ctx, strconv.FormatInt(tvdbID, 10), "tvdb_id")
}

func (c *Client) find(ctx context.Context, externalID, source string) (*FindResult, error) {
	var res FindResult
	q := url.Values{"external_source": {source}}
	if err := c.get(ctx, "/3/find/"+url.PathEscape(externalID), q, &res); err != nil {
		return nil, fmt.Errorf("find %s %s: %w", source, externalID, err)
	}
	return &res, nil
}

// SearchMovie searches movies by title, optionally narrowed to a release year.
func (c *Client) SearchMovie(ctx context.Context, query string, year int) ([]MovieResult, error) {
	q := url.Values{"query": {query}}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	var res searchResponse
	if err := c.get(ctx, "/3/search/movie", q, &res); err != nil {
		return nil, fmt.Errorf("search movie %q: %w", query, err)
	}
	return res.Results, nil
}

// PruneCache drops expired cache entries and returns how many were removed.
func (c *Client) PruneCache() int {
	return c.cache.prune()
}

// get fetches path into out, serving from cache when possible.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	if body, ok := c.cache.get(key); ok {
		metrics.CatalogRequests.WithLabelValues("hit").Inc()
		return json.Unmarshal(body.([]byte), out)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.cb.Execute(func() ([]byte, error) {
			return c.fetch(ctx, path, query)
		})
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.CatalogRequests.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.CatalogRequests.WithLabelValues("miss").Inc()

	body := v.([]byte)
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	c.cache.set(key, body)
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
