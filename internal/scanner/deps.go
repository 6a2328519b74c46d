package scanner

//go:generate mockgen -destination=mocks/mock_deps.go -package=mocks github.com/vmunix/arrsync/internal/scanner PlexLibrary,JellyfinLibrary,Catalog,Automation

import (
	"context"
	"time"

	"github.com/vmunix/arrsync/internal/animelist"
	"github.com/vmunix/arrsync/internal/arr"
	"github.com/vmunix/arrsync/internal/jellyfin"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/metadata"
	"github.com/vmunix/arrsync/internal/plex"
	"github.com/vmunix/arrsync/internal/reconcile"
	"github.com/vmunix/arrsync/internal/tmdb"
)

// PlexLibrary is the subset of the Plex API the scanners read.
type PlexLibrary interface {
	Sections(ctx context.Context) ([]plex.Section, error)
	LibraryContents(ctx context.Context, sectionKey string, offset, size int) (*plex.Contents, error)
	RecentlyAdded(ctx context.Context, sectionKey, sectionType string, since time.Time) ([]plex.Item, error)
	Metadata(ctx context.Context, ratingKey string, children bool) (*plex.Item, error)
	Children(ctx context.Context, ratingKey string) ([]plex.Item, error)
}

// JellyfinLibrary is the subset of the Jellyfin API the scanners read.
type JellyfinLibrary interface {
	LibraryContents(ctx context.Context, libraryID string) ([]jellyfin.Item, error)
	Latest(ctx context.Context, libraryID string) ([]jellyfin.Item, error)
	Item(ctx context.Context, id string) (*jellyfin.Item, error)
	Seasons(ctx context.Context, seriesID string) ([]jellyfin.Item, error)
	Episodes(ctx context.Context, seriesID, seasonID string) ([]jellyfin.Item, error)
}

// Catalog resolves external ids and season layouts against TMDB.
type Catalog interface {
	Movie(ctx context.Context, tmdbID int64) (*tmdb.Movie, error)
	TVShow(ctx context.Context, tmdbID int64) (*tmdb.TVShow, error)
	FindByIMDB(ctx context.Context, imdbID string) (*tmdb.FindResult, error)
	FindByTVDB(ctx context.Context, tvdbID int64) (*tmdb.FindResult, error)
	SearchMovie(ctx context.Context, query string, year int) ([]tmdb.MovieResult, error)
}

// Automation lists what a Sonarr or Radarr server tracks.
type Automation interface {
	Series(ctx context.Context) ([]arr.Series, error)
	Movies(ctx context.Context) ([]arr.Movie, error)
}

// Reconciler applies evidence to title records.
type Reconciler interface {
	ProcessMovie(ctx context.Context, tmdbID int64, ev reconcile.MovieEvidence) error
	ProcessShow(ctx context.Context, tmdbID int64, ev reconcile.ShowEvidence) error
	Features() reconcile.Features
}

// ScanStates persists when each library was last scanned.
type ScanStates interface {
	GetScanState(source, libraryID string) (*library.ScanState, error)
	SetScanState(st library.ScanState) error
}

// SeriesLookup finds a known series by TheTVDB id.
type SeriesLookup interface {
	FindByTVDB(tvdbID int64) (*library.Title, error)
}

// AnimeMapping maps AniDB ids for the HAMA agent.
type AnimeMapping interface {
	Sync(ctx context.Context) error
	Loaded() bool
	ByAniDB(anidbID int64) (animelist.Entry, bool)
	Special(tvdbID int64, episode int) (animelist.Entry, bool)
}

// GUIDCache remembers ids resolved for Plex rating keys.
type GUIDCache interface {
	Get(ctx context.Context, ratingKey string) (metadata.MediaIDs, bool, error)
	Set(ctx context.Context, ratingKey string, ids metadata.MediaIDs) error
}

// Library is one media server library chosen for syncing.
type Library struct {
	ID      string
	Name    string
	Type    string // movie or show
	Enabled bool
}

func enabledTargets(libs []Library) []Target {
	targets := make([]Target, 0, len(libs))
	for _, l := range libs {
		if l.Enabled {
			targets = append(targets, Target{ID: l.ID, Name: l.Name})
		}
	}
	return targets
}
