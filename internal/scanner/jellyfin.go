package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/arrsync/internal/jellyfin"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/reconcile"
	"github.com/vmunix/arrsync/internal/tmdb"
)

// Jellyfin job ids.
const (
	JobJellyfinFull   = "jellyfin-full-scan"
	JobJellyfinRecent = "jellyfin-recently-added-scan"
)

// DefaultUHDWidth is the video width above which a Jellyfin stream is 4K.
const DefaultUHDWidth = 2000

// JellyfinConfig wires a Jellyfin source.
type JellyfinConfig struct {
	Client     JellyfinLibrary
	Catalog    Catalog
	Reconciler Reconciler
	Libraries  []Library
	UHDWidth   int
	Recent     bool
	Logger     *slog.Logger
}

// JellyfinSource scans Jellyfin libraries, either completely or only their
// latest additions.
type JellyfinSource struct {
	client    JellyfinLibrary
	catalog   Catalog
	rec       Reconciler
	libraries []Library
	uhdWidth  int
	recent    bool
	logger    *slog.Logger
}

// NewJellyfinSource creates a Jellyfin source.
func NewJellyfinSource(cfg JellyfinConfig) *JellyfinSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	width := cfg.UHDWidth
	if width <= 0 {
		width = DefaultUHDWidth
	}
	return &JellyfinSource{
		client:    cfg.Client,
		catalog:   cfg.Catalog,
		rec:       cfg.Reconciler,
		libraries: cfg.Libraries,
		uhdWidth:  width,
		recent:    cfg.Recent,
		logger:    logger.With("component", "jellyfin-scanner"),
	}
}

func (j *JellyfinSource) Name() string { return "jellyfin" }

func (j *JellyfinSource) Targets(context.Context) ([]Target, error) {
	return enabledTargets(j.libraries), nil
}

func (j *JellyfinSource) Items(ctx context.Context, target Target) ([]jellyfin.Item, error) {
	if !j.recent {
		return j.client.LibraryContents(ctx, target.ID)
	}
	items, err := j.client.Latest(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	return dedupeJellyfin(items), nil
}

func (j *JellyfinSource) Process(ctx context.Context, _ Target, item jellyfin.Item) error {
	switch item.Type {
	case "Movie":
		return j.processMovie(ctx, item)
	case "Series", "Season", "Episode":
		return j.processShow(ctx, item)
	}
	return nil
}

// resolutions reports whether the item has a 4K video stream and whether
// it has any other. An item without video streams counts as standard.
func (j *JellyfinSource) resolutions(item jellyfin.Item) (uhd, other bool) {
	widths := item.VideoWidths()
	if len(widths) == 0 {
		return false, true
	}
	for _, w := range widths {
		if w > j.uhdWidth {
			uhd = true
		} else {
			other = true
		}
	}
	return uhd, other
}

func (j *JellyfinSource) processMovie(ctx context.Context, item jellyfin.Item) error {
	meta, err := j.client.Item(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("movie %q: %w", item.Name, err)
	}

	tmdbID := parseID(meta.ProviderIDs.Tmdb)
	if tmdbID == 0 && meta.ProviderIDs.Imdb != "" {
		if tmdbID, err = movieByIMDB(ctx, j.catalog, meta.ProviderIDs.Imdb); err != nil {
			return fmt.Errorf("movie %q: %w", meta.Name, err)
		}
	}
	if tmdbID == 0 {
		if tmdbID, err = movieByTitle(ctx, j.catalog, meta.Name, meta.ProductionYear); err != nil {
			return fmt.Errorf("movie %q: %w", meta.Name, err)
		}
	}

	uhd, other := j.resolutions(*meta)
	uhdTracked := j.rec.Features().UHDMovies
	ev := reconcile.MovieEvidence{
		Link:   reconcile.Link{JellyfinID: meta.ID},
		Title:  meta.Name,
		IMDBID: meta.ProviderIDs.Imdb,
		Source: j.Name(),
	}
	if created := meta.Created(); !created.IsZero() {
		ev.MediaAddedAt = &created
	}

	if other || (uhd && !uhdTracked) {
		ev.Dimension = library.DimensionStandard
		if err := j.rec.ProcessMovie(ctx, tmdbID, ev); err != nil {
			return err
		}
	}
	if uhd && uhdTracked {
		ev.Dimension = library.DimensionUHD
		return j.rec.ProcessMovie(ctx, tmdbID, ev)
	}
	return nil
}

func (j *JellyfinSource) processShow(ctx context.Context, item jellyfin.Item) error {
	id := item.ID
	switch {
	case item.SeriesID != "":
		id = item.SeriesID
	case item.SeasonID != "":
		id = item.SeasonID
	}

	meta, err := j.client.Item(ctx, id)
	if err != nil {
		return fmt.Errorf("series %q: %w", item.Name, err)
	}
	show, err := j.showFor(ctx, meta)
	if err != nil {
		return fmt.Errorf("series %q: %w", meta.Name, err)
	}

	jfSeasons, err := j.client.Seasons(ctx, id)
	if err != nil {
		return fmt.Errorf("series %q: list seasons: %w", meta.Name, err)
	}
	byNumber := make(map[int]jellyfin.Item, len(jfSeasons))
	for _, s := range jfSeasons {
		byNumber[s.IndexNumber] = s
	}

	uhdTracked := j.rec.Features().UHDSeries
	var seasons []reconcile.SeasonEvidence
	for _, season := range seasonLayout(show) {
		ev := reconcile.SeasonEvidence{Number: season.SeasonNumber, TotalEpisodes: season.EpisodeCount}
		if jfSeason, ok := byNumber[season.SeasonNumber]; ok {
			episodes, err := j.client.Episodes(ctx, id, jfSeason.ID)
			if err != nil {
				return fmt.Errorf("series %q season %d: %w", meta.Name, season.SeasonNumber, err)
			}
			ev.Episodes, ev.EpisodesUHD = j.countEpisodes(episodes, uhdTracked)
		}
		seasons = append(seasons, ev)
	}

	ev := reconcile.ShowEvidence{
		TVDBID:    tvdbFor(parseID(meta.ProviderIDs.Tvdb), show),
		IMDBID:    show.ExternalIDs.IMDBID,
		Title:     meta.Name,
		Seasons:   seasons,
		Dimension: library.DimensionStandard,
		Link:      reconcile.Link{JellyfinID: id},
		Source:    j.Name(),
	}
	if created := meta.Created(); !created.IsZero() {
		ev.MediaAddedAt = &created
	}
	return j.rec.ProcessShow(ctx, show.ID, ev)
}

// showFor resolves a series through its TVDB id, then its TMDB id.
func (j *JellyfinSource) showFor(ctx context.Context, meta *jellyfin.Item) (*tmdb.TVShow, error) {
	if tvdbID := parseID(meta.ProviderIDs.Tvdb); tvdbID != 0 {
		tmdbID, err := showByTVDB(ctx, j.catalog, tvdbID)
		if err == nil {
			return j.catalog.TVShow(ctx, tmdbID)
		}
		if parseID(meta.ProviderIDs.Tmdb) == 0 {
			return nil, err
		}
	}
	if tmdbID := parseID(meta.ProviderIDs.Tmdb); tmdbID != 0 {
		return j.catalog.TVShow(ctx, tmdbID)
	}
	return nil, fmt.Errorf("no tvdb or tmdb provider id: %w", ErrUnresolved)
}

// countEpisodes splits episodes by video width. An episode with both
// versions counts in both dimensions.
func (j *JellyfinSource) countEpisodes(episodes []jellyfin.Item, uhdTracked bool) (standard, uhd int) {
	if !uhdTracked {
		return len(episodes), 0
	}
	for _, ep := range episodes {
		has4K, other := j.resolutions(ep)
		if other {
			standard++
		}
		if has4K {
			uhd++
		}
	}
	return standard, uhd
}

// dedupeJellyfin keeps the first latest item per series.
func dedupeJellyfin(items []jellyfin.Item) []jellyfin.Item {
	seen := make(map[string]bool, len(items))
	out := make([]jellyfin.Item, 0, len(items))
	for _, item := range items {
		key := item.ID
		switch {
		case item.SeriesID != "":
			key = item.SeriesID
		case item.SeasonID != "":
			key = item.SeasonID
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
