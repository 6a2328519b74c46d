package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	v1 "github.com/vmunix/arrsync/internal/api/v1"
	"github.com/vmunix/arrsync/internal/animelist"
	"github.com/vmunix/arrsync/internal/arr"
	"github.com/vmunix/arrsync/internal/config"
	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/jellyfin"
	"github.com/vmunix/arrsync/internal/jobs"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/lock"
	"github.com/vmunix/arrsync/internal/metadata"
	"github.com/vmunix/arrsync/internal/plex"
	"github.com/vmunix/arrsync/internal/reconcile"
	"github.com/vmunix/arrsync/internal/scanner"
	"github.com/vmunix/arrsync/internal/server"
	"github.com/vmunix/arrsync/internal/tmdb"
)

// Default job schedules, overridable with [jobs.<id>].
var defaultSchedules = map[string]struct {
	name     string
	schedule string
}{
	scanner.JobPlexRecent:     {"Plex Recently Added Scan", "0 */5 * * * *"},
	scanner.JobPlexFull:       {"Plex Full Library Scan", "0 0 3 * * *"},
	scanner.JobJellyfinRecent: {"Jellyfin Recently Added Scan", "0 */5 * * * *"},
	scanner.JobJellyfinFull:   {"Jellyfin Full Library Scan", "0 0 3 * * *"},
	scanner.JobRadarr:         {"Radarr Scan", "0 0 4 * * *"},
	scanner.JobSonarr:         {"Sonarr Scan", "0 30 4 * * *"},
}

const (
	eventRetention   = 30 * 24 * time.Hour
	cachePruneEvery  = time.Hour
	eventsPruneEvery = 24 * time.Hour
)

// syncJob is what every scanner exposes to the daemon, whatever its item type.
type syncJob interface {
	jobs.Job
	Restore(done *events.ScanCompleted)
}

// app holds the clients and jobs built from the config.
type app struct {
	features reconcile.Features
	tmdb     *tmdb.Client
	cache    *metadata.Cache
	anime    *animelist.List
	plex     *plex.Client
	jellyfin *jellyfin.Client
	sonarr   []arr.Server
	radarr   []arr.Server
	jobs     []syncJob
}

func buildApp(cfg *config.Config, db *sql.DB, store *library.Store, bus *events.Bus, logger *slog.Logger) (*app, error) {
	a := &app{
		features: reconcile.Features{UHDMovies: cfg.UHDMovies(), UHDSeries: cfg.UHDSeries()},
		sonarr:   arrServers(cfg.Sonarr),
		radarr:   arrServers(cfg.Radarr),
	}

	a.tmdb = tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
		tmdb.WithRateLimit(cfg.TMDB.RateLimit, cfg.TMDB.Burst),
		tmdb.WithLogger(logger.With("component", "tmdb")),
	)
	a.cache = metadata.NewCache(db)
	a.anime = animelist.New(cfg.AnimeList.URL,
		filepath.Join(filepath.Dir(cfg.Database.Path), "anime-list.xml"),
		cfg.AnimeList.RefreshInterval, logger)

	rec := reconcile.New(store, lock.New(), a.features,
		logger.With("component", "reconcile"), reconcile.WithPublisher(bus))

	scanLog := logger.With("component", "scanner")
	movieLoop := scanner.LoopConfig{BundleSize: cfg.Sync.BundleSize, UpdateRate: cfg.Sync.UpdateRate}
	plexLoop := scanner.LoopConfig{BundleSize: cfg.Sync.PlexBundleSize, UpdateRate: cfg.Sync.UpdateRate}
	sonarrLoop := scanner.LoopConfig{BundleSize: cfg.Sync.SonarrBundleSize, UpdateRate: cfg.Sync.UpdateRate}
	withEvents := scanner.WithEvents(bus)

	if cfg.Plex.Configured() {
		a.plex = plex.New(cfg.Plex.URL, cfg.Plex.Token, logger.With("component", "plex"))
		pc := scanner.PlexConfig{
			Client:     a.plex,
			Catalog:    a.tmdb,
			Reconciler: rec,
			States:     store,
			Anime:      a.anime,
			GUIDs:      metadata.NewGUIDCache(a.cache, metadata.DefaultGUIDTTL),
			Libraries:  libraries(cfg.Plex.Libraries),
			Logger:     scanLog,
		}
		a.jobs = append(a.jobs,
			scanner.New[plex.Item](scanner.JobPlexFull, scanner.NewPlexFullSource(pc), plexLoop, scanLog, withEvents),
			scanner.New[plex.Item](scanner.JobPlexRecent, scanner.NewPlexRecentSource(pc), plexLoop, scanLog, withEvents),
		)
	}

	if cfg.Jellyfin.Configured() {
		a.jellyfin = jellyfin.New(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey,
			logger.With("component", "jellyfin"), jellyfin.WithUserID(cfg.Jellyfin.UserID))
		jc := scanner.JellyfinConfig{
			Client:     a.jellyfin,
			Catalog:    a.tmdb,
			Reconciler: rec,
			Libraries:  libraries(cfg.Jellyfin.Libraries),
			UHDWidth:   cfg.Sync.UHDWidthThreshold,
			Logger:     scanLog,
		}
		recent := jc
		recent.Recent = true
		a.jobs = append(a.jobs,
			scanner.New[jellyfin.Item](scanner.JobJellyfinFull, scanner.NewJellyfinSource(jc), movieLoop, scanLog, withEvents),
			scanner.New[jellyfin.Item](scanner.JobJellyfinRecent, scanner.NewJellyfinSource(recent), movieLoop, scanLog, withEvents),
		)
	}

	if len(a.radarr) > 0 {
		src := scanner.NewRadarrSource(scanner.RadarrConfig{
			Servers:    a.radarr,
			Dial:       dialer(arr.KindRadarr),
			Reconciler: rec,
			Logger:     scanLog,
		})
		a.jobs = append(a.jobs, scanner.New[arr.Movie](scanner.JobRadarr, src, movieLoop, scanLog, withEvents))
	}

	if len(a.sonarr) > 0 {
		src := scanner.NewSonarrSource(scanner.SonarrConfig{
			Servers:    a.sonarr,
			Dial:       dialer(arr.KindSonarr),
			Catalog:    a.tmdb,
			Reconciler: rec,
			Series:     store,
			Logger:     scanLog,
		})
		a.jobs = append(a.jobs, scanner.New[arr.Series](scanner.JobSonarr, src, sonarrLoop, scanLog, withEvents))
	}

	if len(a.jobs) == 0 {
		return nil, fmt.Errorf("no sync sources configured")
	}
	return a, nil
}

// register adds every built job to the scheduler with its configured schedule.
func (a *app) register(s *jobs.Scheduler, cfg *config.Config) error {
	for _, j := range a.jobs {
		def := defaultSchedules[j.Job()]
		schedule, enabled := cfg.JobSchedule(j.Job(), def.schedule)
		if err := s.Register(jobs.Definition{
			Job:      j,
			Name:     def.name,
			Schedule: schedule,
			Enabled:  enabled,
		}); err != nil {
			return fmt.Errorf("register job %s: %w", j.Job(), err)
		}
	}
	return nil
}

// restoreLastRuns seeds job status from the scan.completed events of the
// last retention window.
func (a *app) restoreLastRuns(log *events.EventLog, logger *slog.Logger) {
	raw, err := log.Since(time.Now().Add(-eventRetention))
	if err != nil {
		logger.Warn("could not read scan history", "error", err)
		return
	}
	last := scanner.LastRuns(raw, events.DefaultRegistry())
	for _, j := range a.jobs {
		j.Restore(last[j.Job()])
	}
}

func (a *app) serviceChecks(db *sql.DB) []v1.ServiceCheck {
	checks := []v1.ServiceCheck{
		{Name: "database", Check: db.PingContext},
	}
	if a.plex != nil {
		checks = append(checks, v1.ServiceCheck{Name: "plex", Check: func(ctx context.Context) error {
			_, err := a.plex.Identity(ctx)
			return err
		}})
	}
	if a.jellyfin != nil {
		checks = append(checks, v1.ServiceCheck{Name: "jellyfin", Check: func(ctx context.Context) error {
			_, err := a.jellyfin.Libraries(ctx)
			return err
		}})
	}
	for _, s := range a.radarr {
		client := arr.New(s, arr.KindRadarr)
		checks = append(checks, v1.ServiceCheck{Name: "radarr:" + s.Name, Check: client.Ping})
	}
	for _, s := range a.sonarr {
		client := arr.New(s, arr.KindSonarr)
		checks = append(checks, v1.ServiceCheck{Name: "sonarr:" + s.Name, Check: client.Ping})
	}
	return checks
}

func (a *app) maintenanceTasks(log *events.EventLog) []server.Task {
	tasks := []server.Task{
		{
			Name:     "tmdb-cache-prune",
			Interval: cachePruneEvery,
			Fn: func(context.Context) error {
				a.tmdb.PruneCache()
				return nil
			},
		},
		{
			Name:     "metadata-cache-prune",
			Interval: cachePruneEvery,
			Fn: func(ctx context.Context) error {
				_, err := a.cache.Prune(ctx)
				return err
			},
		},
		{
			Name:     "event-log-prune",
			Interval: eventsPruneEvery,
			Fn: func(context.Context) error {
				_, err := log.Prune(eventRetention)
				return err
			},
		},
	}
	// Only Plex HAMA libraries need the anime mapping. Sync is a no-op
	// while the local copy is fresh.
	if a.plex != nil {
		tasks = append(tasks, server.Task{
			Name:       "animelist-sync",
			Interval:   cachePruneEvery,
			RunAtStart: true,
			Fn:         a.anime.Sync,
		})
	}
	return tasks
}

func dialer(kind arr.Kind) scanner.Dialer {
	return func(s arr.Server) scanner.Automation {
		return arr.New(s, kind)
	}
}

func libraries(cfgs []config.LibraryConfig) []scanner.Library {
	libs := make([]scanner.Library, len(cfgs))
	for i, l := range cfgs {
		libs[i] = scanner.Library{ID: l.ID, Name: l.Name, Type: l.Type, Enabled: l.Enabled}
	}
	return libs
}

func arrServers(cfgs []config.ArrServerConfig) []arr.Server {
	servers := make([]arr.Server, len(cfgs))
	for i, s := range cfgs {
		servers[i] = arr.Server{
			ID:          s.ID,
			Name:        s.Name,
			Hostname:    s.Hostname,
			Port:        s.Port,
			UseSSL:      s.UseSSL,
			BaseURL:     s.BaseURL,
			APIKey:      s.APIKey,
			Is4K:        s.Is4K,
			SyncEnabled: s.SyncEnabled,
		}
	}
	return servers
}
