// Package animelist maps AniDB ids to TVDB, TMDB and IMDb ids using the
// community anime-lists mapping file that the HAMA Plex agent relies on.
package animelist

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultURL is the upstream mapping file.
const DefaultURL = "https://raw.githubusercontent.com/Anime-Lists/anime-lists/master/anime-list.xml"

// DefaultRefresh is how long a downloaded mapping stays fresh.
const DefaultRefresh = 24 * time.Hour

var specialRe = regexp.MustCompile(`;[0-9]+-([0-9]+);`)

// Entry is what an AniDB id maps to. Zero fields are unknown.
type Entry struct {
	TVDBID int64
	TMDBID int64
	IMDBID string
}

// List holds the parsed mapping and keeps the local copy fresh.
type List struct {
	url        string
	path       string
	refresh    time.Duration
	httpClient *http.Client
	log        *slog.Logger
	group      singleflight.Group

	mu       sync.RWMutex
	mapping  map[int64]Entry
	specials map[int64]map[int]int64 // tvdb id -> special episode -> anidb id
}

// New creates a list that downloads url into path.
func New(url, path string, refresh time.Duration, log *slog.Logger) *List {
	if url == "" {
		url = DefaultURL
	}
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	if log == nil {
		log = slog.Default()
	}
	return &List{
		url:        url,
		path:       path,
		refresh:    refresh,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		log:        log.With("component", "animelist"),
	}
}

// Loaded reports whether a mapping has been parsed.
func (l *List) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.mapping) > 0
}

// ByAniDB returns the mapping for an AniDB id.
func (l *List) ByAniDB(anidbID int64) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.mapping[anidbID]
	return e, ok
}

// Special returns the entry a TVDB specials episode maps to, if any.
func (l *List) Special(tvdbID int64, episode int) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	anidbID, ok := l.specials[tvdbID][episode]
	if !ok {
		return Entry{}, false
	}
	e, ok := l.mapping[anidbID]
	return e, ok
}

// Sync downloads the mapping when the local copy is missing or stale, and
// loads it if nothing is loaded yet. Concurrent calls share one sync.
func (l *List) Sync(ctx context.Context) error {
	_, err, _ := l.group.Do("sync", func() (any, error) {
		return nil, l.sync(ctx)
	})
	return err
}

func (l *List) sync(ctx context.Context) error {
	if info, err := os.Stat(l.path); err == nil && time.Since(info.ModTime()) < l.refresh {
		if l.Loaded() {
			return nil
		}
		return l.loadFile()
	}

	if err := l.download(ctx); err != nil {
		return fmt.Errorf("download anime list: %w", err)
	}
	return l.loadFile()
}

func (l *List) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".anime-list-*.xml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write mapping: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace mapping: %w", err)
	}
	l.log.Info("anime list downloaded", "path", l.path)
	return nil
}

func (l *List) loadFile() error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open anime list: %w", err)
	}
	defer func() { _ = f.Close() }()

	mapping, specials, err := Parse(f)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.mapping, l.specials = mapping, specials
	l.mu.Unlock()

	l.log.Info("anime list loaded", "entries", len(mapping), "series_with_specials", len(specials))
	return nil
}

type animeList struct {
	Anime []anime `xml:"anime"`
}

type anime struct {
	AniDBID           string       `xml:"anidbid,attr"`
	TVDBID            string       `xml:"tvdbid,attr"`
	TMDBID            string       `xml:"tmdbid,attr"`
	IMDBID            string       `xml:"imdbid,attr"`
	DefaultTVDBSeason string       `xml:"defaulttvdbseason,attr"`
	MappingList       *mappingList `xml:"mapping-list"`
}

type mappingList struct {
	Mappings []mapping `xml:"mapping"`
}

type mapping struct {
	TVDBSeason string `xml:"tvdbseason,attr"`
	Text       string `xml:",chardata"`
}

// ErrEmpty is returned when a mapping file holds no entries.
var ErrEmpty = errors.New("anime list is empty")

// Parse reads an anime-list XML document.
func Parse(r io.Reader) (map[int64]Entry, map[int64]map[int]int64, error) {
	var doc animeList
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode anime list: %w", err)
	}
	if len(doc.Anime) == 0 {
		return nil, nil, ErrEmpty
	}

	mapping := make(map[int64]Entry, len(doc.Anime))
	specials := make(map[int64]map[int]int64)
	addSpecial := func(tvdbID int64, episode int, anidbID int64) {
		if specials[tvdbID] == nil {
			specials[tvdbID] = make(map[int]int64)
		}
		specials[tvdbID][episode] = anidbID
	}

	for _, a := range doc.Anime {
		anidbID, err := strconv.ParseInt(a.AniDBID, 10, 64)
		if err != nil {
			continue
		}
		tvdbID, _ := strconv.ParseInt(a.TVDBID, 10, 64)
		tmdbID, _ := strconv.ParseInt(a.TMDBID, 10, 64)
		imdbID := a.IMDBID
		if !strings.HasPrefix(imdbID, "tt") {
			imdbID = ""
		}
		mapping[anidbID] = Entry{TVDBID: tvdbID, TMDBID: tmdbID, IMDBID: imdbID}

		if tvdbID == 0 {
			continue
		}
		if a.MappingList != nil {
			for _, m := range a.MappingList.Mappings {
				if m.TVDBSeason != "0" {
					continue
				}
				if match := specialRe.FindStringSubmatch(m.Text); match != nil {
					episode, _ := strconv.Atoi(match[1])
					addSpecial(tvdbID, episode, anidbID)
				}
			}
		}
		// A movie without a mapping list is the first special itself.
		if imdbID != "" && a.DefaultTVDBSeason == "0" && a.MappingList == nil {
			addSpecial(tvdbID, 1, anidbID)
		}
	}
	return mapping, specials, nil
}
