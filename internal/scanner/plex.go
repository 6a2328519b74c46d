package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/metadata"
	"github.com/vmunix/arrsync/internal/plex"
	"github.com/vmunix/arrsync/internal/reconcile"
)

// Plex job ids.
const (
	JobPlexFull   = "plex-full-scan"
	JobPlexRecent = "plex-recently-added-scan"
)

// recentOverlap widens the recently-added window so items Plex indexed
// while the previous scan was running are not missed.
const recentOverlap = 10 * time.Minute

var (
	imdbGUID      = regexp.MustCompile(`imdb://(tt[0-9]+)`)
	tmdbGUID      = regexp.MustCompile(`tmdb://([0-9]+)`)
	tvdbGUID      = regexp.MustCompile(`tvdb://([0-9]+)`)
	tmdbShowGUID  = regexp.MustCompile(`themoviedb://([0-9]+)`)
	plexGUID      = regexp.MustCompile(`plex://`)
	hamaTVDBGUID  = regexp.MustCompile(`hama://tvdb[0-9]?-([0-9]+)`)
	hamaAniDBGUID = regexp.MustCompile(`hama://anidb[0-9]?-([0-9]+)`)
)

// ErrNoGUIDs is returned for new-agent items Plex has no external ids for.
var ErrNoGUIDs = errors.New("no guid metadata, refresh the item's metadata in plex")

// PlexConfig wires a Plex source.
type PlexConfig struct {
	Client     PlexLibrary
	Catalog    Catalog
	Reconciler Reconciler
	States     ScanStates
	Anime      AnimeMapping // optional
	GUIDs      GUIDCache    // optional
	Libraries  []Library
	Logger     *slog.Logger
	Now        func() time.Time
}

// plexSource holds what the full and recently-added scans share.
type plexSource struct {
	client    PlexLibrary
	catalog   Catalog
	rec       Reconciler
	states    ScanStates
	anime     AnimeMapping
	guids     GUIDCache
	libraries map[string]Library
	order     []Library
	now       func() time.Time
	logger    *slog.Logger

	mu      sync.Mutex
	started map[string]time.Time
}

func newPlexSource(cfg PlexConfig) *plexSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	libs := make(map[string]Library, len(cfg.Libraries))
	for _, l := range cfg.Libraries {
		libs[l.ID] = l
	}
	return &plexSource{
		client:    cfg.Client,
		catalog:   cfg.Catalog,
		rec:       cfg.Reconciler,
		states:    cfg.States,
		anime:     cfg.Anime,
		guids:     cfg.GUIDs,
		libraries: libs,
		order:     cfg.Libraries,
		now:       now,
		logger:    logger.With("component", "plex-scanner"),
		started:   make(map[string]time.Time),
	}
}

func (p *plexSource) Name() string { return "plex" }

// Targets lists enabled libraries. The section listing doubles as the
// connectivity check and tells whether any library uses the HAMA agent.
func (p *plexSource) Targets(ctx context.Context) ([]Target, error) {
	targets := enabledTargets(p.order)
	if len(targets) == 0 {
		return nil, nil
	}
	sections, err := p.client.Sections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	if p.anime != nil && p.usesHama(sections) {
		if err := p.anime.Sync(ctx); err != nil {
			p.logger.Warn("anime list sync failed, hama anidb items will be skipped", "error", err)
		}
	}
	return targets, nil
}

func (p *plexSource) usesHama(sections []plex.Section) bool {
	for _, s := range sections {
		if l, ok := p.libraries[s.Key]; ok && l.Enabled && s.Agent == plex.HamaAgent {
			return true
		}
	}
	return false
}

// Process routes one library item to the movie or series flow.
func (p *plexSource) Process(ctx context.Context, _ Target, item plex.Item) error {
	switch item.Type {
	case "movie":
		ids, err := p.resolveIDs(ctx, item)
		if err != nil {
			return fmt.Errorf("movie %q: %w", item.Title, err)
		}
		return p.processMovie(ctx, item, ids.TMDBID, ids.IMDBID)
	case "show", "season", "episode":
		return p.processShow(ctx, item)
	}
	return nil
}

// processMovie records one movie. A file that is not 4K proves the
// standard dimension; a 4K file proves the 4K dimension when it is tracked
// and the standard one otherwise.
func (p *plexSource) processMovie(ctx context.Context, item plex.Item, tmdbID int64, imdbID string) error {
	added := item.Added()
	ev := reconcile.MovieEvidence{
		MediaAddedAt: &added,
		Link:         reconcile.Link{RatingKey: item.RatingKey},
		Title:        item.Title,
		IMDBID:       imdbID,
		Source:       p.Name(),
	}
	uhdTracked := p.rec.Features().UHDMovies

	dims := map[library.Dimension]bool{}
	if item.HasNon4K() || len(item.Media) == 0 {
		dims[library.DimensionStandard] = true
	}
	if item.Has4K() {
		dims[dimension(true, uhdTracked)] = true
	}
	for _, dim := range library.Dimensions {
		if !dims[dim] {
			continue
		}
		ev.Dimension = dim
		if err := p.rec.ProcessMovie(ctx, tmdbID, ev); err != nil {
			return err
		}
	}
	return nil
}

func (p *plexSource) processShow(ctx context.Context, item plex.Item) error {
	ratingKey := item.RatingKey
	switch {
	case item.GrandparentRatingKey != "":
		ratingKey = item.GrandparentRatingKey
	case item.ParentRatingKey != "":
		ratingKey = item.ParentRatingKey
	}

	meta, err := p.client.Metadata(ctx, ratingKey, true)
	if err != nil {
		return fmt.Errorf("series %q: %w", item.Title, err)
	}
	ids, err := p.resolveIDs(ctx, *meta)
	if err != nil {
		return fmt.Errorf("series %q: %w", meta.Title, err)
	}

	// HAMA files films as series; without a TVDB id the entry is a movie.
	if ids.Hama && ids.TVDBID == 0 {
		return p.processHamaMovie(ctx, meta, ids.TMDBID)
	}
	if ids.Hama {
		if err := p.processHamaSpecials(ctx, meta, ids.TVDBID); err != nil {
			p.logger.Warn("failed to process hama specials", "title", meta.Title, "error", err)
		}
	}

	show, err := p.catalog.TVShow(ctx, ids.TMDBID)
	if err != nil {
		return fmt.Errorf("series %q: %w", meta.Title, err)
	}

	uhdTracked := p.rec.Features().UHDSeries
	var seasons []reconcile.SeasonEvidence
	for _, season := range seasonLayout(show) {
		ev := reconcile.SeasonEvidence{Number: season.SeasonNumber, TotalEpisodes: season.EpisodeCount}
		if child, ok := meta.Child(season.SeasonNumber); ok {
			episodes, err := p.client.Children(ctx, child.RatingKey)
			if err != nil {
				return fmt.Errorf("series %q season %d: %w", meta.Title, season.SeasonNumber, err)
			}
			ev.Episodes, ev.EpisodesUHD = countPlexEpisodes(episodes, uhdTracked)
		}
		seasons = append(seasons, ev)
	}

	added := meta.Added()
	return p.rec.ProcessShow(ctx, ids.TMDBID, reconcile.ShowEvidence{
		TVDBID:       tvdbFor(ids.TVDBID, show),
		IMDBID:       show.ExternalIDs.IMDBID,
		Title:        meta.Title,
		Seasons:      seasons,
		Dimension:    library.DimensionStandard,
		Link:         reconcile.Link{RatingKey: ratingKey},
		MediaAddedAt: &added,
		Source:       p.Name(),
	})
}

// countPlexEpisodes splits episodes by dimension. With 4K untracked every
// episode counts as standard.
func countPlexEpisodes(episodes []plex.Item, uhdTracked bool) (standard, uhd int) {
	if !uhdTracked {
		return len(episodes), 0
	}
	for _, ep := range episodes {
		if ep.HasNon4K() {
			standard++
		}
		if ep.Has4K() {
			uhd++
		}
	}
	return standard, uhd
}

// processHamaMovie records a HAMA movie from the first episode of its first
// season; the season and episode numbers vary between libraries.
func (p *plexSource) processHamaMovie(ctx context.Context, meta *plex.Item, tmdbID int64) error {
	if len(meta.Children) == 0 {
		return nil
	}
	episodes, err := p.client.Children(ctx, meta.Children[0].RatingKey)
	if err != nil {
		return fmt.Errorf("hama movie %q: %w", meta.Title, err)
	}
	if len(episodes) == 0 {
		return nil
	}
	return p.processMovie(ctx, episodes[0], tmdbID, "")
}

// processHamaSpecials records specials the anime list maps to movies.
func (p *plexSource) processHamaSpecials(ctx context.Context, meta *plex.Item, tvdbID int64) error {
	specials, ok := meta.Child(0)
	if !ok || p.anime == nil {
		return nil
	}
	episodes, err := p.client.Children(ctx, specials.RatingKey)
	if err != nil {
		return err
	}
	for _, ep := range episodes {
		entry, ok := p.anime.Special(tvdbID, ep.Index)
		if !ok {
			continue
		}
		tmdbID := entry.TMDBID
		if tmdbID == 0 && entry.IMDBID != "" {
			if tmdbID, err = movieByIMDB(ctx, p.catalog, entry.IMDBID); err != nil {
				p.logger.Debug("hama special unresolved", "imdb_id", entry.IMDBID, "error", err)
				continue
			}
		}
		if tmdbID == 0 {
			continue
		}
		if err := p.processMovie(ctx, ep, tmdbID, entry.IMDBID); err != nil {
			return err
		}
	}
	return nil
}

// resolveIDs maps an item's agent GUID to catalog ids.
func (p *plexSource) resolveIDs(ctx context.Context, item plex.Item) (metadata.MediaIDs, error) {
	var ids metadata.MediaIDs
	guid := item.GUID
	preferShow := item.Type != "movie"

	switch {
	case plexGUID.MatchString(guid):
		return p.resolveNewAgent(ctx, item)

	case imdbGUID.MatchString(guid):
		ids.IMDBID = imdbGUID.FindStringSubmatch(guid)[1]
		id, err := anyByIMDB(ctx, p.catalog, ids.IMDBID, preferShow)
		if err != nil {
			return ids, err
		}
		ids.TMDBID = id

	case tmdbGUID.MatchString(guid):
		ids.TMDBID = parseID(tmdbGUID.FindStringSubmatch(guid)[1])

	case tvdbGUID.MatchString(guid):
		ids.TVDBID = parseID(tvdbGUID.FindStringSubmatch(guid)[1])
		id, err := showByTVDB(ctx, p.catalog, ids.TVDBID)
		if err != nil {
			return ids, err
		}
		ids.TMDBID = id

	case tmdbShowGUID.MatchString(guid):
		ids.TMDBID = parseID(tmdbShowGUID.FindStringSubmatch(guid)[1])

	case hamaTVDBGUID.MatchString(guid):
		ids.Hama = true
		ids.TVDBID = parseID(hamaTVDBGUID.FindStringSubmatch(guid)[1])
		id, err := showByTVDB(ctx, p.catalog, ids.TVDBID)
		if err != nil {
			return ids, err
		}
		ids.TMDBID = id

	case hamaAniDBGUID.MatchString(guid):
		resolved, err := p.resolveAniDB(ctx, parseID(hamaAniDBGUID.FindStringSubmatch(guid)[1]))
		if err != nil {
			return ids, err
		}
		ids = resolved
	}

	if ids.TMDBID == 0 && item.Type == "movie" {
		id, err := movieByTitle(ctx, p.catalog, item.Title, item.Year)
		if err != nil {
			return ids, err
		}
		ids.TMDBID = id
	}
	if ids.TMDBID == 0 {
		return ids, fmt.Errorf("guid %q: %w", guid, ErrUnresolved)
	}
	return ids, nil
}

// resolveNewAgent handles plex:// GUIDs, whose external ids are listed as
// Guid children and cached per rating key.
func (p *plexSource) resolveNewAgent(ctx context.Context, item plex.Item) (metadata.MediaIDs, error) {
	if p.guids != nil {
		cached, ok, err := p.guids.Get(ctx, item.RatingKey)
		if err != nil {
			p.logger.Debug("guid cache read failed", "rating_key", item.RatingKey, "error", err)
		}
		if ok && cached.TMDBID != 0 {
			return cached, nil
		}
	}

	refs := item.GUIDs
	if len(refs) == 0 {
		meta, err := p.client.Metadata(ctx, item.RatingKey, false)
		if err != nil {
			return metadata.MediaIDs{}, err
		}
		refs = meta.GUIDs
	}
	if len(refs) == 0 {
		return metadata.MediaIDs{}, ErrNoGUIDs
	}

	var ids metadata.MediaIDs
	for _, ref := range refs {
		switch {
		case imdbGUID.MatchString(ref.ID):
			ids.IMDBID = imdbGUID.FindStringSubmatch(ref.ID)[1]
		case tmdbGUID.MatchString(ref.ID):
			ids.TMDBID = parseID(tmdbGUID.FindStringSubmatch(ref.ID)[1])
		case tvdbGUID.MatchString(ref.ID):
			ids.TVDBID = parseID(tvdbGUID.FindStringSubmatch(ref.ID)[1])
		}
	}
	if ids.TMDBID == 0 && ids.IMDBID != "" {
		id, err := anyByIMDB(ctx, p.catalog, ids.IMDBID, item.Type != "movie")
		if err != nil {
			return ids, err
		}
		ids.TMDBID = id
	}
	if ids.TMDBID == 0 {
		return ids, fmt.Errorf("guid %q: %w", item.GUID, ErrUnresolved)
	}

	if p.guids != nil {
		if err := p.guids.Set(ctx, item.RatingKey, ids); err != nil {
			p.logger.Debug("guid cache write failed", "rating_key", item.RatingKey, "error", err)
		}
	}
	return ids, nil
}

// resolveAniDB maps a HAMA AniDB id through the anime list: the TVDB series
// first, then the movie ids some entries carry.
func (p *plexSource) resolveAniDB(ctx context.Context, anidbID int64) (metadata.MediaIDs, error) {
	ids := metadata.MediaIDs{Hama: true}
	if p.anime == nil || !p.anime.Loaded() {
		return ids, fmt.Errorf("anidb %d: anime list not loaded, is the library agent set to hama?", anidbID)
	}
	entry, ok := p.anime.ByAniDB(anidbID)
	if !ok {
		return ids, fmt.Errorf("anidb %d: %w", anidbID, ErrUnresolved)
	}

	if entry.TVDBID != 0 {
		id, err := showByTVDB(ctx, p.catalog, entry.TVDBID)
		switch {
		case err == nil:
			ids.TVDBID, ids.TMDBID = entry.TVDBID, id
			return ids, nil
		case errors.Is(err, ErrUnresolved):
			p.logger.Debug("tvdb entry missing from catalog", "anidb_id", anidbID, "tvdb_id", entry.TVDBID)
		default:
			return ids, err
		}
	}

	ids.IMDBID = entry.IMDBID
	switch {
	case entry.TMDBID != 0:
		ids.TMDBID = entry.TMDBID
	case entry.IMDBID != "":
		id, err := movieByIMDB(ctx, p.catalog, entry.IMDBID)
		if err != nil {
			return ids, err
		}
		ids.TMDBID = id
	}
	return ids, nil
}

// PlexFullSource walks every enabled library page by page.
type PlexFullSource struct {
	*plexSource
}

// NewPlexFullSource creates the full-scan source.
func NewPlexFullSource(cfg PlexConfig) *PlexFullSource {
	return &PlexFullSource{plexSource: newPlexSource(cfg)}
}

// Items is unused; the scan pages through Page.
func (p *PlexFullSource) Items(context.Context, Target) ([]plex.Item, error) {
	return nil, nil
}

// Page fetches one window of a library.
func (p *PlexFullSource) Page(ctx context.Context, target Target, offset, size int) (Page[plex.Item], error) {
	contents, err := p.client.LibraryContents(ctx, target.ID, offset, size)
	if err != nil {
		return Page[plex.Item]{}, err
	}
	return Page[plex.Item]{Items: contents.Items, Total: contents.TotalSize}, nil
}

// PlexRecentSource scans what was added since each library's last scan.
type PlexRecentSource struct {
	*plexSource
}

// NewPlexRecentSource creates the recently-added source.
func NewPlexRecentSource(cfg PlexConfig) *PlexRecentSource {
	return &PlexRecentSource{plexSource: newPlexSource(cfg)}
}

// Items lists recently added items, one per series.
func (p *PlexRecentSource) Items(ctx context.Context, target Target) ([]plex.Item, error) {
	var since time.Time
	st, err := p.states.GetScanState(p.Name(), target.ID)
	switch {
	case err == nil:
		since = st.LastScan.Add(-recentOverlap)
	case errors.Is(err, library.ErrNotFound):
	default:
		return nil, err
	}

	p.mu.Lock()
	p.started[target.ID] = p.now()
	p.mu.Unlock()

	items, err := p.client.RecentlyAdded(ctx, target.ID, p.libraries[target.ID].Type, since)
	if err != nil {
		return nil, err
	}
	return dedupePlex(items), nil
}

// Finish records the scan so the next run starts from here.
func (p *PlexRecentSource) Finish(_ context.Context, target Target) error {
	p.mu.Lock()
	at, ok := p.started[target.ID]
	delete(p.started, target.ID)
	p.mu.Unlock()
	if !ok {
		at = p.now()
	}
	return p.states.SetScanState(library.ScanState{Source: p.Name(), LibraryID: target.ID, LastScan: at})
}

// dedupePlex keeps the first item per series: episodes and seasons of one
// show collapse onto the same key.
func dedupePlex(items []plex.Item) []plex.Item {
	seen := make(map[string]bool, len(items))
	out := make([]plex.Item, 0, len(items))
	for _, item := range items {
		key := item.RatingKey
		switch {
		case item.GrandparentRatingKey != "":
			key = item.GrandparentRatingKey
		case item.ParentRatingKey != "":
			key = item.ParentRatingKey
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
