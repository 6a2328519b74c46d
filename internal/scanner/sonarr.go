package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vmunix/arrsync/internal/arr"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/reconcile"
	"github.com/vmunix/arrsync/internal/tmdb"
)

// Automation job ids.
const (
	JobSonarr = "sonarr-scan"
	JobRadarr = "radarr-scan"
)

// Dialer opens a client for one automation server.
type Dialer func(server arr.Server) Automation

// servers is the target bookkeeping shared by the Sonarr and Radarr sources.
type servers struct {
	list   []arr.Server
	byID   map[string]arr.Server
	dial   Dialer
	logger *slog.Logger
}

func newServers(list []arr.Server, dial Dialer, logger *slog.Logger) servers {
	list = arr.Dedupe(list)
	byID := make(map[string]arr.Server, len(list))
	for _, s := range list {
		byID[serverKey(s)] = s
	}
	return servers{list: list, byID: byID, dial: dial, logger: logger}
}

func serverKey(s arr.Server) string { return strconv.FormatInt(s.ID, 10) }

func (s servers) targets() []Target {
	targets := make([]Target, 0, len(s.list))
	for _, srv := range s.list {
		if !srv.SyncEnabled {
			s.logger.Info("sync not enabled, skipping server", "server", srv.Name)
			continue
		}
		targets = append(targets, Target{ID: serverKey(srv), Name: srv.Name})
	}
	return targets
}

func (s servers) client(target Target) (arr.Server, Automation, error) {
	srv, ok := s.byID[target.ID]
	if !ok {
		return arr.Server{}, nil, fmt.Errorf("unknown server %q", target.ID)
	}
	return srv, s.dial(srv), nil
}

// SonarrConfig wires a Sonarr source.
type SonarrConfig struct {
	Servers    []arr.Server
	Dial       Dialer
	Catalog    Catalog
	Reconciler Reconciler
	Series     SeriesLookup
	Logger     *slog.Logger
}

// SonarrSource reconciles every series tracked by the configured Sonarr
// servers.
type SonarrSource struct {
	servers servers
	catalog Catalog
	rec     Reconciler
	series  SeriesLookup
	logger  *slog.Logger
}

// NewSonarrSource creates a Sonarr source.
func NewSonarrSource(cfg SonarrConfig) *SonarrSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sonarr-scanner")
	return &SonarrSource{
		servers: newServers(cfg.Servers, cfg.Dial, logger),
		catalog: cfg.Catalog,
		rec:     cfg.Reconciler,
		series:  cfg.Series,
		logger:  logger,
	}
}

func (s *SonarrSource) Name() string { return "sonarr" }

func (s *SonarrSource) Targets(context.Context) ([]Target, error) {
	return s.servers.targets(), nil
}

func (s *SonarrSource) Items(ctx context.Context, target Target) ([]arr.Series, error) {
	_, client, err := s.servers.client(target)
	if err != nil {
		return nil, err
	}
	return client.Series(ctx)
}

func (s *SonarrSource) Process(ctx context.Context, target Target, series arr.Series) error {
	server, ok := s.servers.byID[target.ID]
	if !ok {
		return fmt.Errorf("unknown server %q", target.ID)
	}
	uhd := s.rec.Features().UHDSeries && server.Is4K

	show, err := s.showFor(ctx, series.TVDBID)
	if err != nil {
		return fmt.Errorf("series %q (tvdb %d): %w", series.Title, series.TVDBID, err)
	}

	var seasons []reconcile.SeasonEvidence
	for _, season := range series.Seasons {
		if season.Number == 0 {
			continue
		}
		if _, ok := show.Season(season.Number); !ok {
			continue
		}
		ev := reconcile.SeasonEvidence{
			Number:        season.Number,
			TotalEpisodes: season.TotalEpisodes,
			Processing:    season.Monitored && season.EpisodeFiles == 0,
			UHDOverride:   uhd,
		}
		if uhd {
			ev.EpisodesUHD = season.EpisodeFiles
		} else {
			ev.Episodes = season.EpisodeFiles
		}
		seasons = append(seasons, ev)
	}

	serviceID, externalID := server.ID, series.ID
	var tvdbID *int64
	if series.TVDBID != 0 {
		tvdbID = &series.TVDBID
	}
	return s.rec.ProcessShow(ctx, show.ID, reconcile.ShowEvidence{
		TVDBID:    tvdbID,
		IMDBID:    series.IMDBID,
		Title:     series.Title,
		Seasons:   seasons,
		Dimension: dimension(uhd, true),
		Link: reconcile.Link{
			ServiceID:           &serviceID,
			ExternalServiceID:   &externalID,
			ExternalServiceSlug: series.TitleSlug,
		},
		Source: s.Name(),
	})
}

// showFor prefers the TMDB id of a series already on record.
func (s *SonarrSource) showFor(ctx context.Context, tvdbID int64) (*tmdb.TVShow, error) {
	if s.series != nil {
		existing, err := s.series.FindByTVDB(tvdbID)
		switch {
		case err == nil && existing.TMDBID != 0:
			return s.catalog.TVShow(ctx, existing.TMDBID)
		case err != nil && !errors.Is(err, library.ErrNotFound):
			return nil, err
		}
	}
	tmdbID, err := showByTVDB(ctx, s.catalog, tvdbID)
	if err != nil {
		return nil, err
	}
	return s.catalog.TVShow(ctx, tmdbID)
}
