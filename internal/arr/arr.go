// Package arr reads series and movies from Sonarr and Radarr servers.
package arr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golift.io/starr"
	"golift.io/starr/radarr"
	"golift.io/starr/sonarr"
)

// ErrWrongKind is returned when a call does not match the server's kind.
var ErrWrongKind = errors.New("arr: wrong server kind")

// Kind distinguishes Sonarr from Radarr servers.
type Kind string

const (
	KindSonarr Kind = "sonarr"
	KindRadarr Kind = "radarr"
)

const requestTimeout = 60 * time.Second

// Server is one configured automation server.
type Server struct {
	ID          int64
	Name        string
	Hostname    string
	Port        int
	UseSSL      bool
	BaseURL     string
	APIKey      string
	Is4K        bool
	SyncEnabled bool
}

// URL builds the server's root URL.
func (s Server) URL() string {
	scheme := "http"
	if s.UseSSL {
		scheme = "https"
	}
	base := strings.TrimSuffix(s.BaseURL, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return scheme + "://" + net.JoinHostPort(s.Hostname, strconv.Itoa(s.Port)) + base
}

// Dedupe drops servers that point at the same host, port and base URL as
// an earlier entry.
func Dedupe(servers []Server) []Server {
	seen := make(map[string]bool, len(servers))
	out := make([]Server, 0, len(servers))
	for _, s := range servers {
		key := strings.ToLower(s.Hostname) + "|" + strconv.Itoa(s.Port) + "|" + strings.Trim(s.BaseURL, "/")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// Season is a Sonarr season with its file statistics.
type Season struct {
	Number        int
	Monitored     bool
	EpisodeFiles  int
	TotalEpisodes int
}

// Series is a series tracked by Sonarr.
type Series struct {
	ID        int64
	Title     string
	TitleSlug string
	TVDBID    int64
	IMDBID    string
	Monitored bool
	Seasons   []Season
}

// Movie is a movie tracked by Radarr.
type Movie struct {
	ID        int64
	TMDBID    int64
	IMDBID    string
	Title     string
	TitleSlug string
	Monitored bool
	HasFile   bool
	Added     time.Time
}

// Client reads one Sonarr or Radarr server.
type Client struct {
	server Server
	kind   Kind
	sonarr *sonarr.Sonarr
	radarr *radarr.Radarr
}

// New creates a client for server.
func New(server Server, kind Kind) *Client {
	cfg := starr.New(server.APIKey, server.URL(), requestTimeout)
	c := &Client{server: server, kind: kind}
	switch kind {
	case KindSonarr:
		c.sonarr = sonarr.New(cfg)
	case KindRadarr:
		c.radarr = radarr.New(cfg)
	}
	return c
}

// Server returns the server this client reads.
func (c *Client) Server() Server { return c.server }

// Ping checks that the server answers with the configured API key.
func (c *Client) Ping(ctx context.Context) error {
	var err error
	switch {
	case c.sonarr != nil:
		_, err = c.sonarr.GetSystemStatusContext(ctx)
	case c.radarr != nil:
		_, err = c.radarr.GetSystemStatusContext(ctx)
	default:
		return fmt.Errorf("ping %s: %w", c.server.Name, ErrWrongKind)
	}
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.server.Name, err)
	}
	return nil
}

// Series lists every series on a Sonarr server.
func (c *Client) Series(ctx context.Context) ([]Series, error) {
	if c.sonarr == nil {
		return nil, fmt.Errorf("list series on %s: %w", c.kind, ErrWrongKind)
	}
	list, err := c.sonarr.GetAllSeriesContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list series on %s: %w", c.server.Name, err)
	}
	out := make([]Series, 0, len(list))
	for _, s := range list {
		out = append(out, fromSonarr(s))
	}
	return out, nil
}

// Movies lists every movie on a Radarr server.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	if c.radarr == nil {
		return nil, fmt.Errorf("list movies on %s: %w", c.kind, ErrWrongKind)
	}
	list, err := c.radarr.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("list movies on %s: %w", c.server.Name, err)
	}
	out := make([]Movie, 0, len(list))
	for _, m := range list {
		out = append(out, fromRadarr(m))
	}
	return out, nil
}

func fromSonarr(s *sonarr.Series) Series {
	out := Series{
		ID:        s.ID,
		Title:     s.Title,
		TitleSlug: s.TitleSlug,
		TVDBID:    s.TvdbID,
		IMDBID:    s.ImdbID,
		Monitored: s.Monitored,
	}
	for _, season := range s.Seasons {
		if season == nil {
			continue
		}
		sn := Season{Number: int(season.SeasonNumber), Monitored: season.Monitored}
		if season.Statistics != nil {
			sn.EpisodeFiles = int(season.Statistics.EpisodeFileCount)
			sn.TotalEpisodes = int(season.Statistics.TotalEpisodeCount)
		}
		out.Seasons = append(out.Seasons, sn)
	}
	return out
}

func fromRadarr(m *radarr.Movie) Movie {
	return Movie{
		ID:        m.ID,
		TMDBID:    m.TmdbID,
		IMDBID:    m.ImdbID,
		Title:     m.Title,
		TitleSlug: m.TitleSlug,
		Monitored: m.Monitored,
		HasFile:   m.HasFile,
		Added:     m.Added,
	}
}
