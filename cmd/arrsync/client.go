package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Client wraps HTTP calls to the arrsync server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new arrsync API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// post sends a bodiless POST. Job actions take everything from the path.
func (c *Client) post(path string, result any) error {
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Response types

type StatusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Features struct {
		UHDMovies bool `json:"uhd_movies"`
		UHDSeries bool `json:"uhd_series"`
	} `json:"features"`
	RunningJobs []string `json:"running_jobs"`
	Titles      int      `json:"titles"`
}

type JobStatus struct {
	Job           string    `json:"job"`
	Running       bool      `json:"running"`
	Progress      int       `json:"progress"`
	Total         int       `json:"total"`
	CurrentSource string    `json:"current_source,omitempty"`
	Sources       []string  `json:"sources"`
	SessionID     string    `json:"session_id,omitempty"`
	StartedAt     time.Time `json:"started_at,omitzero"`
	LastResult    string    `json:"last_result,omitempty"`
	LastFinished  time.Time `json:"last_finished,omitzero"`
}

type JobResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	Enabled  bool      `json:"enabled"`
	NextRun  time.Time `json:"next_run,omitzero"`
	Status   JobStatus `json:"status"`
}

type ListJobsResponse struct {
	Items []JobResponse `json:"items"`
}

type RunJobResponse struct {
	Job     string `json:"job"`
	Message string `json:"message"`
}

type SlotResponse struct {
	Status              string `json:"status"`
	ServiceID           *int64 `json:"service_id,omitempty"`
	ExternalServiceID   *int64 `json:"external_service_id,omitempty"`
	ExternalServiceSlug string `json:"external_service_slug,omitempty"`
	RatingKey           string `json:"rating_key,omitempty"`
	JellyfinID          string `json:"jellyfin_id,omitempty"`
}

type SeasonResponse struct {
	Number   int          `json:"number"`
	Standard SlotResponse `json:"standard"`
	UHD      SlotResponse `json:"4k"`
}

type TitleResponse struct {
	ID           int64            `json:"id"`
	TMDBID       int64            `json:"tmdb_id"`
	Kind         string           `json:"kind"`
	TVDBID       *int64           `json:"tvdb_id,omitempty"`
	IMDBID       string           `json:"imdb_id,omitempty"`
	Name         string           `json:"name"`
	Standard     SlotResponse     `json:"standard"`
	UHD          SlotResponse     `json:"4k"`
	MediaAddedAt *time.Time       `json:"media_added_at,omitempty"`
	Seasons      []SeasonResponse `json:"seasons,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type ListTitlesResponse struct {
	Items  []TitleResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
	Payload    string `json:"payload,omitempty"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

type ConnectionResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

type VerifyResponse struct {
	Connections []ConnectionResult `json:"connections"`
	Checked     int                `json:"checked"`
	Passed      int                `json:"passed"`
}

// TitleQuery narrows a title listing. Empty fields are not sent.
type TitleQuery struct {
	Kind   string
	Status string
	Limit  int
	Offset int
}

func (q TitleQuery) encode() string {
	v := url.Values{}
	if q.Kind != "" {
		v.Set("kind", q.Kind)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Jobs() (*ListJobsResponse, error) {
	var resp ListJobsResponse
	if err := c.get("/api/v1/jobs", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Job(id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.get("/api/v1/jobs/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RunJob(id string) (*RunJobResponse, error) {
	var resp RunJobResponse
	if err := c.post("/api/v1/jobs/"+url.PathEscape(id)+"/run", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CancelJob(id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.post("/api/v1/jobs/"+url.PathEscape(id)+"/cancel", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Titles(q TitleQuery) (*ListTitlesResponse, error) {
	var resp ListTitlesResponse
	if err := c.get("/api/v1/titles"+q.encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Title(id int64) (*TitleResponse, error) {
	var resp TitleResponse
	if err := c.get(fmt.Sprintf("/api/v1/titles/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Verify() (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.get("/api/v1/verify", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
