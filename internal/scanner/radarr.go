package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/arrsync/internal/arr"
	"github.com/vmunix/arrsync/internal/reconcile"
)

// RadarrConfig wires a Radarr source.
type RadarrConfig struct {
	Servers    []arr.Server
	Dial       Dialer
	Reconciler Reconciler
	Logger     *slog.Logger
}

// RadarrSource reconciles every movie tracked by the configured Radarr
// servers.
type RadarrSource struct {
	servers servers
	rec     Reconciler
	logger  *slog.Logger
}

// NewRadarrSource creates a Radarr source.
func NewRadarrSource(cfg RadarrConfig) *RadarrSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "radarr-scanner")
	return &RadarrSource{
		servers: newServers(cfg.Servers, cfg.Dial, logger),
		rec:     cfg.Reconciler,
		logger:  logger,
	}
}

func (r *RadarrSource) Name() string { return "radarr" }

func (r *RadarrSource) Targets(context.Context) ([]Target, error) {
	return r.servers.targets(), nil
}

func (r *RadarrSource) Items(ctx context.Context, target Target) ([]arr.Movie, error) {
	_, client, err := r.servers.client(target)
	if err != nil {
		return nil, err
	}
	return client.Movies(ctx)
}

func (r *RadarrSource) Process(ctx context.Context, target Target, movie arr.Movie) error {
	if !movie.Monitored && !movie.HasFile {
		r.logger.Debug("unmonitored and not downloaded, skipping", "title", movie.Title)
		return nil
	}
	if movie.TMDBID == 0 {
		return fmt.Errorf("movie %q: %w", movie.Title, ErrUnresolved)
	}
	server, ok := r.servers.byID[target.ID]
	if !ok {
		return fmt.Errorf("unknown server %q", target.ID)
	}

	serviceID, externalID := server.ID, movie.ID
	return r.rec.ProcessMovie(ctx, movie.TMDBID, reconcile.MovieEvidence{
		Dimension:  dimension(server.Is4K, r.rec.Features().UHDMovies),
		Processing: !movie.HasFile,
		Link: reconcile.Link{
			ServiceID:           &serviceID,
			ExternalServiceID:   &externalID,
			ExternalServiceSlug: movie.TitleSlug,
		},
		Title:  movie.Title,
		IMDBID: movie.IMDBID,
		Source: r.Name(),
	})
}
