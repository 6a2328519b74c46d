package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/arrsync/internal/arr"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/reconcile"
	"github.com/vmunix/arrsync/internal/scanner/mocks"
	"github.com/vmunix/arrsync/internal/tmdb"
)

var (
	hdServer  = arr.Server{ID: 1, Name: "main", Hostname: "sonarr", Port: 8989, SyncEnabled: true}
	uhdServer = arr.Server{ID: 2, Name: "4k", Hostname: "sonarr", Port: 8989, BaseURL: "/4k", Is4K: true, SyncEnabled: true}
)

func dialer(clients map[int64]Automation) Dialer {
	return func(s arr.Server) Automation { return clients[s.ID] }
}

func breakingBadSeries() arr.Series {
	return arr.Series{
		ID: 7, Title: "Breaking Bad", TitleSlug: "breaking-bad", TVDBID: 81189, IMDBID: "tt0903747", Monitored: true,
		Seasons: []arr.Season{
			{Number: 0, Monitored: false, EpisodeFiles: 2, TotalEpisodes: 9},
			{Number: 1, Monitored: true, EpisodeFiles: 7, TotalEpisodes: 7},
			{Number: 2, Monitored: true, EpisodeFiles: 0, TotalEpisodes: 13},
			{Number: 9, Monitored: true, EpisodeFiles: 3, TotalEpisodes: 3},
		},
	}
}

func TestSonarrSource_Targets(t *testing.T) {
	src := NewSonarrSource(SonarrConfig{Servers: []arr.Server{
		hdServer,
		{ID: 3, Name: "dupe", Hostname: "SONARR", Port: 8989, SyncEnabled: true},
		{ID: 4, Name: "disabled", Hostname: "other", Port: 8989},
		uhdServer,
	}})

	targets, err := src.Targets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Target{{ID: "1", Name: "main"}, {ID: "2", Name: "4k"}}, targets)
}

func TestSonarrSource_Items(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAutomation(ctrl)
	client.EXPECT().Series(gomock.Any()).Return([]arr.Series{breakingBadSeries()}, nil)

	src := NewSonarrSource(SonarrConfig{Servers: []arr.Server{hdServer}, Dial: dialer(map[int64]Automation{1: client})})
	items, err := src.Items(context.Background(), Target{ID: "1"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = src.Items(context.Background(), Target{ID: "99"})
	assert.Error(t, err)
}

func TestSonarrSource_ProcessNewSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)
	rec, store := setupLibrary(t, reconcile.Features{})

	catalog.EXPECT().FindByTVDB(gomock.Any(), int64(81189)).Return(&tmdb.FindResult{TVResults: []tmdb.TVResult{{ID: 1396}}}, nil)
	catalog.EXPECT().TVShow(gomock.Any(), int64(1396)).Return(breakingBad(), nil)

	src := NewSonarrSource(SonarrConfig{Servers: []arr.Server{hdServer}, Catalog: catalog, Reconciler: rec, Series: store})
	require.NoError(t, src.Process(context.Background(), Target{ID: "1"}, breakingBadSeries()))

	title := findTitle(t, store, 1396, library.KindSeries)
	assert.Equal(t, library.StatusPartiallyAvailable, title.Availability.Standard.Status)
	assert.Equal(t, int64(1), *title.Availability.Standard.ServiceID)
	assert.Equal(t, int64(7), *title.Availability.Standard.ExternalServiceID)
	assert.Equal(t, "breaking-bad", title.Availability.Standard.ExternalServiceSlug)

	assert.Equal(t, library.StatusAvailable, title.Season(1).Availability.Standard.Status)
	assert.Equal(t, library.StatusProcessing, title.Season(2).Availability.Standard.Status, "monitored without files")
	assert.Nil(t, title.Season(0))
	assert.Nil(t, title.Season(9), "seasons unknown to the catalog are dropped")
}

func TestSonarrSource_UsesExistingRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)
	rec, store := setupLibrary(t, reconcile.Features{})

	existing := &library.Title{TMDBID: 1396, Kind: library.KindSeries, TVDBID: int64Ptr(81189), Name: "Breaking Bad"}
	existing.Availability.Standard.Status = library.StatusUnknown
	existing.Availability.UHD.Status = library.StatusUnknown
	require.NoError(t, store.SaveTitle(existing))

	// No find-by-tvdb lookup when the series is already on record.
	catalog.EXPECT().TVShow(gomock.Any(), int64(1396)).Return(breakingBad(), nil)

	src := NewSonarrSource(SonarrConfig{Servers: []arr.Server{hdServer}, Catalog: catalog, Reconciler: rec, Series: store})
	require.NoError(t, src.Process(context.Background(), Target{ID: "1"}, breakingBadSeries()))
}

func TestSonarrSource_4KServer(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)
	rec, store := setupLibrary(t, reconcile.Features{UHDSeries: true})

	catalog.EXPECT().FindByTVDB(gomock.Any(), int64(81189)).Return(&tmdb.FindResult{TVResults: []tmdb.TVResult{{ID: 1396}}}, nil)
	catalog.EXPECT().TVShow(gomock.Any(), int64(1396)).Return(breakingBad(), nil)

	src := NewSonarrSource(SonarrConfig{Servers: []arr.Server{uhdServer}, Catalog: catalog, Reconciler: rec, Series: store})
	require.NoError(t, src.Process(context.Background(), Target{ID: "2"}, breakingBadSeries()))

	title := findTitle(t, store, 1396, library.KindSeries)
	assert.Equal(t, library.StatusAvailable, title.Season(1).Availability.UHD.Status)
	assert.Equal(t, library.StatusProcessing, title.Season(2).Availability.UHD.Status)
	assert.Equal(t, library.StatusUnknown, title.Season(1).Availability.Standard.Status)
	require.NotNil(t, title.Availability.UHD.ServiceID)
	assert.Equal(t, int64(2), *title.Availability.UHD.ServiceID)
	assert.Nil(t, title.Availability.Standard.ServiceID)
}

func TestRadarrSource_Process(t *testing.T) {
	radarr := arr.Server{ID: 5, Name: "radarr", Hostname: "radarr", Port: 7878, SyncEnabled: true}
	radarr4k := arr.Server{ID: 6, Name: "radarr-4k", Hostname: "radarr4k", Port: 7878, Is4K: true, SyncEnabled: true}

	tests := []struct {
		name         string
		features     reconcile.Features
		server       arr.Server
		movie        arr.Movie
		wantStandard library.Status
		wantUHD      library.Status
	}{
		{
			name:         "downloaded",
			server:       radarr,
			movie:        arr.Movie{ID: 1, TMDBID: 550, Title: "Fight Club", TitleSlug: "fight-club-550", Monitored: true, HasFile: true},
			wantStandard: library.StatusAvailable,
			wantUHD:      library.StatusUnknown,
		},
		{
			name:         "monitored without file",
			server:       radarr,
			movie:        arr.Movie{ID: 1, TMDBID: 550, Monitored: true},
			wantStandard: library.StatusProcessing,
			wantUHD:      library.StatusUnknown,
		},
		{
			name:         "4k server tracked",
			features:     reconcile.Features{UHDMovies: true},
			server:       radarr4k,
			movie:        arr.Movie{ID: 1, TMDBID: 550, Monitored: true, HasFile: true},
			wantStandard: library.StatusUnknown,
			wantUHD:      library.StatusAvailable,
		},
		{
			name:         "4k server folded when untracked",
			server:       radarr4k,
			movie:        arr.Movie{ID: 1, TMDBID: 550, HasFile: true},
			wantStandard: library.StatusAvailable,
			wantUHD:      library.StatusUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, store := setupLibrary(t, tt.features)
			src := NewRadarrSource(RadarrConfig{Servers: []arr.Server{tt.server}, Reconciler: rec})

			require.NoError(t, src.Process(context.Background(), Target{ID: serverKey(tt.server)}, tt.movie))

			title := findTitle(t, store, 550, library.KindMovie)
			assert.Equal(t, tt.wantStandard, title.Availability.Standard.Status)
			assert.Equal(t, tt.wantUHD, title.Availability.UHD.Status)
		})
	}
}

func TestRadarrSource_SkipsUnmonitoredWithoutFile(t *testing.T) {
	rec, store := setupLibrary(t, reconcile.Features{})
	server := arr.Server{ID: 5, Hostname: "radarr", Port: 7878, SyncEnabled: true}
	src := NewRadarrSource(RadarrConfig{Servers: []arr.Server{server}, Reconciler: rec})

	require.NoError(t, src.Process(context.Background(), Target{ID: "5"}, arr.Movie{ID: 1, TMDBID: 550}))

	_, err := store.FindTitle(550, library.KindMovie)
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestRadarrSource_MissingTMDBID(t *testing.T) {
	rec, _ := setupLibrary(t, reconcile.Features{})
	server := arr.Server{ID: 5, Hostname: "radarr", Port: 7878, SyncEnabled: true}
	src := NewRadarrSource(RadarrConfig{Servers: []arr.Server{server}, Reconciler: rec})

	err := src.Process(context.Background(), Target{ID: "5"}, arr.Movie{ID: 1, Monitored: true})
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestRadarrSource_Items(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAutomation(ctrl)
	client.EXPECT().Movies(gomock.Any()).Return([]arr.Movie{{ID: 1}, {ID: 2}}, nil)

	server := arr.Server{ID: 5, Hostname: "radarr", Port: 7878, SyncEnabled: true}
	src := NewRadarrSource(RadarrConfig{Servers: []arr.Server{server}, Dial: dialer(map[int64]Automation{5: client})})

	items, err := src.Items(context.Background(), Target{ID: "5"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
