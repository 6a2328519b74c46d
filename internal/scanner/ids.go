package scanner

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/tmdb"
	"github.com/vmunix/arrsync/pkg/titlematch"
)

// ErrUnresolved is returned when an item carries no id that maps to a
// catalog entry.
var ErrUnresolved = errors.New("unable to resolve catalog id")

// movieByIMDB resolves an IMDb id to a TMDB movie id.
func movieByIMDB(ctx context.Context, catalog Catalog, imdbID string) (int64, error) {
	res, err := catalog.FindByIMDB(ctx, imdbID)
	if err != nil {
		return 0, fmt.Errorf("find %s: %w", imdbID, err)
	}
	if len(res.MovieResults) == 0 {
		return 0, fmt.Errorf("find %s: %w", imdbID, ErrUnresolved)
	}
	return res.MovieResults[0].ID, nil
}

// anyByIMDB resolves an IMDb id to a TMDB id, preferring series results
// when preferShow is set.
func anyByIMDB(ctx context.Context, catalog Catalog, imdbID string, preferShow bool) (int64, error) {
	res, err := catalog.FindByIMDB(ctx, imdbID)
	if err != nil {
		return 0, fmt.Errorf("find %s: %w", imdbID, err)
	}
	movie := len(res.MovieResults) > 0
	show := len(res.TVResults) > 0
	switch {
	case show && (preferShow || !movie):
		return res.TVResults[0].ID, nil
	case movie:
		return res.MovieResults[0].ID, nil
	}
	return 0, fmt.Errorf("find %s: %w", imdbID, ErrUnresolved)
}

// showByTVDB resolves a TVDB id to a TMDB series id.
func showByTVDB(ctx context.Context, catalog Catalog, tvdbID int64) (int64, error) {
	res, err := catalog.FindByTVDB(ctx, tvdbID)
	if err != nil {
		return 0, fmt.Errorf("find tvdb %d: %w", tvdbID, err)
	}
	if len(res.TVResults) == 0 {
		return 0, fmt.Errorf("find tvdb %d: %w", tvdbID, ErrUnresolved)
	}
	return res.TVResults[0].ID, nil
}

// movieByTitle searches the catalog. Only a high-confidence match is
// accepted.
func movieByTitle(ctx context.Context, catalog Catalog, title string, year int) (int64, error) {
	if title == "" {
		return 0, ErrUnresolved
	}
	results, err := catalog.SearchMovie(ctx, title, year)
	if err != nil {
		return 0, fmt.Errorf("search %q: %w", title, err)
	}
	candidates := make([]titlematch.Candidate, len(results))
	for i, r := range results {
		candidates[i] = titlematch.Candidate{ID: r.ID, Title: r.Title, Year: r.Year()}
	}
	best := titlematch.Best(title, year, candidates)
	if best.Confidence != titlematch.ConfidenceHigh {
		return 0, fmt.Errorf("search %q (%d): %w", title, year, ErrUnresolved)
	}
	return best.Candidate.ID, nil
}

// seasonLayout returns the catalog's regular seasons; specials are skipped.
func seasonLayout(show *tmdb.TVShow) []tmdb.Season {
	out := make([]tmdb.Season, 0, len(show.Seasons))
	for _, s := range show.Seasons {
		if s.SeasonNumber != 0 {
			out = append(out, s)
		}
	}
	return out
}

// tvdbFor picks the TVDB id a source reported, falling back to the
// catalog's cross reference.
func tvdbFor(reported int64, show *tmdb.TVShow) *int64 {
	id := reported
	if id == 0 {
		id = show.ExternalIDs.TVDBID
	}
	if id == 0 {
		return nil
	}
	return &id
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// dimension folds 4K evidence into the standard slot when 4K is not tracked.
func dimension(uhd, tracked bool) library.Dimension {
	if uhd && tracked {
		return library.DimensionUHD
	}
	return library.DimensionStandard
}
