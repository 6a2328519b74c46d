// Package plex is a read-only client for the Plex Media Server library API.
package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnauthorized is returned when the token is missing or rejected.
	ErrUnauthorized = errors.New("plex: unauthorized")
	// ErrNotFound is returned for unknown rating keys or sections.
	ErrNotFound = errors.New("plex: not found")
)

// recentlyAddedLimit caps a recently-added listing.
const recentlyAddedLimit = 500

// Client interacts with the Plex Media Server API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a new Plex client.
func New(baseURL, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		log:     log.With("component", "plex"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Identity returns the Plex server name and version.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var result identityResponse
	if err := c.get(ctx, "/", nil, &result); err != nil {
		return nil, err
	}
	return &Identity{Name: result.FriendlyName, Version: result.Version}, nil
}

// Sections returns all library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var result sectionsResponse
	if err := c.get(ctx, "/library/sections", nil, &result); err != nil {
		return nil, err
	}
	return result.Sections, nil
}

// LibraryContents returns one page of a section's top-level items, with
// their GUIDs.
func (c *Client) LibraryContents(ctx context.Context, sectionKey string, offset, size int) (*Contents, error) {
	q := url.Values{
		"includeGuids":          {"1"},
		"X-Plex-Container-Start": {strconv.Itoa(offset)},
		"X-Plex-Container-Size":  {strconv.Itoa(size)},
	}
	var result container
	if err := c.get(ctx, "/library/sections/"+url.PathEscape(sectionKey)+"/all", q, &result); err != nil {
		return nil, err
	}
	items := result.items()
	total := result.TotalSize
	if total == 0 {
		total = offset + len(items)
	}
	return &Contents{Items: items, TotalSize: total}, nil
}

// RecentlyAdded lists items added to a section since the given time, newest
// first. Show sections list episodes, so callers see the season and show
// through ParentRatingKey and GrandparentRatingKey. A zero since lists the
// most recent items without a lower bound.
func (c *Client) RecentlyAdded(ctx context.Context, sectionKey, sectionType string, since time.Time) ([]Item, error) {
	itemType := "1"
	if sectionType == "show" {
		itemType = "4"
	}
	q := url.Values{
		"type":                   {itemType},
		"sort":                   {"addedAt:desc"},
		"includeGuids":           {"1"},
		"X-Plex-Container-Start": {"0"},
		"X-Plex-Container-Size":  {strconv.Itoa(recentlyAddedLimit)},
	}
	if !since.IsZero() {
		q.Set("addedAt>>", strconv.FormatInt(since.Unix(), 10))
	}
	var result container
	if err := c.get(ctx, "/library/sections/"+url.PathEscape(sectionKey)+"/all", q, &result); err != nil {
		return nil, err
	}
	return result.items(), nil
}

// Metadata returns full metadata for one item. With children set, a show
// carries its seasons in Children.
func (c *Client) Metadata(ctx context.Context, ratingKey string, children bool) (*Item, error) {
	var q url.Values
	if children {
		q = url.Values{"includeChildren": {"1"}}
	}
	var result container
	if err := c.get(ctx, "/library/metadata/"+url.PathEscape(ratingKey), q, &result); err != nil {
		return nil, err
	}
	items := result.items()
	if len(items) == 0 {
		return nil, fmt.Errorf("metadata %s: %w", ratingKey, ErrNotFound)
	}
	return &items[0], nil
}

// Children lists the direct children of an item: seasons of a show or
// episodes of a season.
func (c *Client) Children(ctx context.Context, ratingKey string) ([]Item, error) {
	var result container
	if err := c.get(ctx, "/library/metadata/"+url.PathEscape(ratingKey)+"/children", nil, &result); err != nil {
		return nil, err
	}
	return result.items(), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.token == "" {
		return ErrUnauthorized
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	default:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	c.log.Debug("plex request", "path", path, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
