// Package jellyfin is a read-only client for the Jellyfin library API.
package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vmunix/arrsync/internal/breaker"
)

var (
	// ErrUnauthorized is returned when the API key is missing or rejected.
	ErrUnauthorized = errors.New("jellyfin: unauthorized")
	// ErrNotFound is returned for unknown item ids.
	ErrNotFound = errors.New("jellyfin: not found")
)

// latestLimit caps a recently-added listing.
const latestLimit = 50

// Client talks to one Jellyfin server on behalf of one user.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
	log        *slog.Logger

	mu     sync.Mutex
	userID string
}

// Option configures a Client.
type Option func(*Client)

// WithUserID fixes the user whose view of the library is read. Without it
// the user owning the API key is looked up on first use.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Jellyfin client.
func New(baseURL, apiKey string, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With("component", "jellyfin"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cb = breaker.New[[]byte]("jellyfin", breaker.DefaultConfig, c.log, func(err error) bool {
		return err == nil || errors.Is(err, ErrNotFound)
	})
	return c
}

// Libraries lists the collection folders on the server.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	var resp librariesResponse
	if err := c.get(ctx, "/Library/MediaFolders", nil, &resp); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	libs := make([]Library, 0, len(resp.Items))
	for _, l := range resp.Items {
		if l.Type == "CollectionFolder" {
			libs = append(libs, l)
		}
	}
	return libs, nil
}

// LibraryContents lists every movie and series in a library.
func (c *Client) LibraryContents(ctx context.Context, libraryID string) ([]Item, error) {
	uid, err := c.user(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"ParentId":         {libraryID},
		"Recursive":        {"true"},
		"IncludeItemTypes": {"Movie,Series"},
		"SortBy":           {"SortName"},
		"SortOrder":        {"Ascending"},
		"Fields":           {"ProviderIds,DateCreated"},
	}
	var resp itemsResponse
	if err := c.get(ctx, "/Users/"+uid+"/Items", q, &resp); err != nil {
		return nil, fmt.Errorf("library %s contents: %w", libraryID, err)
	}
	return resp.Items, nil
}

// Latest lists the most recently added items in a library.
func (c *Client) Latest(ctx context.Context, libraryID string) ([]Item, error) {
	uid, err := c.user(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"ParentId": {libraryID},
		"Limit":    {strconv.Itoa(latestLimit)},
	}
	var items []Item
	if err := c.get(ctx, "/Users/"+uid+"/Items/Latest", q, &items); err != nil {
		return nil, fmt.Errorf("library %s latest: %w", libraryID, err)
	}
	return items, nil
}

// Item returns full detail for one item, including media sources.
func (c *Client) Item(ctx context.Context, id string) (*Item, error) {
	uid, err := c.user(ctx)
	if err != nil {
		return nil, err
	}
	var item Item
	if err := c.get(ctx, "/Users/"+uid+"/Items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, fmt.Errorf("item %s: %w", id, err)
	}
	return &item, nil
}

// Seasons lists the seasons of a series.
func (c *Client) Seasons(ctx context.Context, seriesID string) ([]Item, error) {
	var resp itemsResponse
	if err := c.get(ctx, "/Shows/"+url.PathEscape(seriesID)+"/Seasons", nil, &resp); err != nil {
		return nil, fmt.Errorf("series %s seasons: %w", seriesID, err)
	}
	return resp.Items, nil
}

// Episodes lists the episodes of one season with their media sources.
func (c *Client) Episodes(ctx context.Context, seriesID, seasonID string) ([]Item, error) {
	q := url.Values{
		"seasonId": {seasonID},
		"Fields":   {"MediaSources"},
	}
	var resp itemsResponse
	if err := c.get(ctx, "/Shows/"+url.PathEscape(seriesID)+"/Episodes", q, &resp); err != nil {
		return nil, fmt.Errorf("series %s season %s episodes: %w", seriesID, seasonID, err)
	}
	return resp.Items, nil
}

func (c *Client) user(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != "" {
		return c.userID, nil
	}
	var u userResponse
	if err := c.get(ctx, "/Users/Me", nil, &u); err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}
	c.userID = u.ID
	return c.userID, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return ErrUnauthorized
	}
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.fetch(ctx, path, query)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
