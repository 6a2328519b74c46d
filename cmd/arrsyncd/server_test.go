package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/arrsync/internal/config"
	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/jobs"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/scanner"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestLogRequests_CapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.WriteHeader(http.StatusInternalServerError) // ignored
	}), logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/sonarr-scan/run", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, buf.String(), "status=202")
	assert.Contains(t, buf.String(), "path=/api/v1/jobs/sonarr-scan/run")
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestLogRequests_MetricsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), logger)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "status=200")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "data", "arrsync.db")},
		TMDB:     config.TMDBConfig{APIKey: "key", CacheTTL: time.Hour, RateLimit: 20, Burst: 20},
		Plex: config.PlexConfig{
			URL:   "http://plex.local:32400",
			Token: "token",
			Libraries: []config.LibraryConfig{
				{ID: "1", Name: "Movies", Type: "movie", Enabled: true},
				{ID: "2", Name: "TV", Type: "show", Enabled: false},
			},
		},
		Radarr: []config.ArrServerConfig{
			{ID: 1, Name: "Radarr", Hostname: "radarr.local", Port: 7878, APIKey: "r", SyncEnabled: true},
			{ID: 2, Name: "Radarr 4K", Hostname: "radarr4k.local", Port: 7878, APIKey: "r4", Is4K: true, SyncEnabled: true},
		},
		Sync: config.SyncConfig{BundleSize: 20, PlexBundleSize: 50, SonarrBundleSize: 50, UpdateRate: time.Second, UHDWidthThreshold: 2000},
		Jobs: map[string]config.JobConfig{
			scanner.JobPlexFull: {Schedule: "0 0 5 * * *"},
		},
	}
}

func TestOpenDB_CreatesDirAndMigrates(t *testing.T) {
	cfg := testConfig(t)
	db, err := openDB(cfg.Database.Path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, total, err := library.NewStore(db).ListTitles(library.TitleFilter{Limit: 1})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBuildApp_RegistersConfiguredJobs(t *testing.T) {
	cfg := testConfig(t)
	db, err := openDB(cfg.Database.Path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	bus := events.NewBus(nil, nil)
	defer func() { _ = bus.Close() }()

	a, err := buildApp(cfg, db, library.NewStore(db), bus, slog.Default())
	require.NoError(t, err)
	assert.True(t, a.features.UHDMovies)
	assert.False(t, a.features.UHDSeries)

	sched := jobs.New(nil)
	require.NoError(t, a.register(sched, cfg))

	infos := sched.List()
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	assert.Equal(t, []string{scanner.JobPlexFull, scanner.JobPlexRecent, scanner.JobRadarr}, ids)

	full, err := sched.Get(scanner.JobPlexFull)
	require.NoError(t, err)
	assert.Equal(t, "0 0 5 * * *", full.Schedule, "config override")
	assert.Equal(t, "Plex Full Library Scan", full.Name)

	recent, err := sched.Get(scanner.JobPlexRecent)
	require.NoError(t, err)
	assert.Equal(t, "0 */5 * * * *", recent.Schedule, "default schedule")
	assert.True(t, recent.Enabled)

	names := make([]string, 0)
	for _, c := range a.serviceChecks(db) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"database", "plex", "radarr:Radarr", "radarr:Radarr 4K"}, names)

	tasks := make([]string, 0)
	for _, task := range a.maintenanceTasks(events.NewEventLog(db)) {
		tasks = append(tasks, task.Name)
	}
	assert.Contains(t, tasks, "animelist-sync")
	assert.Contains(t, tasks, "event-log-prune")
}

func TestBuildApp_NoSources(t *testing.T) {
	cfg := testConfig(t)
	cfg.Plex = config.PlexConfig{}
	cfg.Radarr = nil

	db, err := openDB(cfg.Database.Path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = buildApp(cfg, db, library.NewStore(db), events.NewBus(nil, nil), slog.Default())
	require.Error(t, err)
}

func TestRestoreLastRuns(t *testing.T) {
	cfg := testConfig(t)
	db, err := openDB(cfg.Database.Path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log := events.NewEventLog(db)
	_, err = log.Append(&events.ScanCompleted{
		BaseEvent: events.NewBaseEvent(events.EventScanCompleted, events.EntityScan, 0),
		Job:       scanner.JobRadarr,
		Result:    "completed",
		Processed: 12,
	})
	require.NoError(t, err)

	a, err := buildApp(cfg, db, library.NewStore(db), events.NewBus(nil, nil), slog.Default())
	require.NoError(t, err)
	a.restoreLastRuns(log, slog.Default())

	for _, j := range a.jobs {
		st := j.Status()
		if j.Job() == scanner.JobRadarr {
			assert.Equal(t, "completed", st.LastResult)
			assert.False(t, st.LastFinished.IsZero())
			continue
		}
		assert.Empty(t, st.LastResult, j.Job())
	}
}

func TestArrServersAndLibraries(t *testing.T) {
	servers := arrServers([]config.ArrServerConfig{
		{ID: 3, Name: "Sonarr", Hostname: "sonarr", Port: 8989, BaseURL: "/sonarr", APIKey: "k", Is4K: true, SyncEnabled: true},
	})
	require.Len(t, servers, 1)
	assert.Equal(t, int64(3), servers[0].ID)
	assert.Equal(t, "http://sonarr:8989/sonarr", servers[0].URL())
	assert.True(t, servers[0].Is4K)

	libs := libraries([]config.LibraryConfig{{ID: "4", Name: "Anime", Type: "show", Enabled: true}})
	assert.Equal(t, []scanner.Library{{ID: "4", Name: "Anime", Type: "show", Enabled: true}}, libs)
}

func TestServiceChecks_DatabasePing(t *testing.T) {
	cfg := testConfig(t)
	db, err := openDB(cfg.Database.Path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	a := &app{}
	checks := a.serviceChecks(db)
	require.Len(t, checks, 1)
	assert.NoError(t, checks[0].Check(context.Background()))
}
