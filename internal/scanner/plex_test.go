package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/arrsync/internal/animelist"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/metadata"
	"github.com/vmunix/arrsync/internal/plex"
	"github.com/vmunix/arrsync/internal/reconcile"
	"github.com/vmunix/arrsync/internal/scanner/mocks"
	"github.com/vmunix/arrsync/internal/tmdb"
)

var movieLib = Target{ID: "1", Name: "Movies"}

type plexFixture struct {
	client  *mocks.MockPlexLibrary
	catalog *mocks.MockCatalog
	store   *library.Store
	cfg     PlexConfig
}

func newPlexFixture(t *testing.T, features reconcile.Features) *plexFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	rec, store := setupLibrary(t, features)
	f := &plexFixture{
		client:  mocks.NewMockPlexLibrary(ctrl),
		catalog: mocks.NewMockCatalog(ctrl),
		store:   store,
	}
	f.cfg = PlexConfig{
		Client:     f.client,
		Catalog:    f.catalog,
		Reconciler: rec,
		States:     store,
		Libraries: []Library{
			{ID: "1", Name: "Movies", Type: "movie", Enabled: true},
			{ID: "2", Name: "TV Shows", Type: "show", Enabled: true},
			{ID: "3", Name: "Home Videos", Type: "movie", Enabled: false},
		},
		Now: func() time.Time { return sourceNow },
	}
	return f
}

func TestPlexSource_TargetsEnabledLibrariesOnly(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	anime := &fakeAnime{}
	f.cfg.Anime = anime
	src := NewPlexFullSource(f.cfg)

	f.client.EXPECT().Sections(gomock.Any()).Return([]plex.Section{
		{Key: "1", Title: "Movies", Type: "movie", Agent: "tv.plex.agents.movie"},
		{Key: "2", Title: "TV Shows", Type: "show", Agent: "tv.plex.agents.series"},
	}, nil)

	targets, err := src.Targets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Target{{ID: "1", Name: "Movies"}, {ID: "2", Name: "TV Shows"}}, targets)
	assert.Zero(t, anime.syncs, "no library uses hama")
}

func TestPlexSource_TargetsSyncsAnimeListForHama(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	anime := &fakeAnime{}
	f.cfg.Anime = anime
	src := NewPlexFullSource(f.cfg)

	f.client.EXPECT().Sections(gomock.Any()).Return([]plex.Section{
		{Key: "2", Title: "Anime", Type: "show", Agent: plex.HamaAgent},
	}, nil)

	_, err := src.Targets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, anime.syncs)
}

func TestPlexSource_TargetsUnavailable(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)

	f.client.EXPECT().Sections(gomock.Any()).Return(nil, plex.ErrUnauthorized)

	_, err := src.Targets(context.Background())
	assert.ErrorIs(t, err, plex.ErrUnauthorized)
}

func TestPlexFullSource_Page(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)

	f.client.EXPECT().LibraryContents(gomock.Any(), "1", 50, 50).Return(&plex.Contents{
		Items:     []plex.Item{{RatingKey: "10"}, {RatingKey: "11"}},
		TotalSize: 52,
	}, nil)

	page, err := src.Page(context.Background(), movieLib, 50, 50)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 52, page.Total)
}

func TestPlexSource_LegacyIMDbMovie(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)

	f.catalog.EXPECT().FindByIMDB(gomock.Any(), "tt0137523").Return(&tmdb.FindResult{
		MovieResults: []tmdb.MovieResult{{ID: 550, Title: "Fight Club"}},
	}, nil)

	item := plex.Item{
		RatingKey: "10",
		GUID:      "com.plexapp.agents.imdb://tt0137523?lang=en",
		Type:      "movie",
		Title:     "Fight Club",
		AddedAt:   sourceNow.Add(-time.Hour).Unix(),
		Media:     []plex.Media{{VideoResolution: "1080"}},
	}
	require.NoError(t, src.Process(context.Background(), movieLib, item))

	title := findTitle(t, f.store, 550, library.KindMovie)
	assert.Equal(t, library.StatusAvailable, title.Availability.Standard.Status)
	assert.Equal(t, library.StatusUnknown, title.Availability.UHD.Status)
	assert.Equal(t, "10", title.Availability.Standard.RatingKey)
	assert.Equal(t, "tt0137523", title.IMDBID)
	require.NotNil(t, title.MediaAddedAt)
	assert.True(t, title.MediaAddedAt.Equal(sourceNow.Add(-time.Hour).Truncate(time.Second)))
}

func TestPlexSource_4KMovieDimensions(t *testing.T) {
	tests := []struct {
		name         string
		features     reconcile.Features
		media        []plex.Media
		wantStandard library.Status
		wantUHD      library.Status
	}{
		{
			name:         "4k folded into standard when untracked",
			media:        []plex.Media{{VideoResolution: "4k"}},
			wantStandard: library.StatusAvailable,
			wantUHD:      library.StatusUnknown,
		},
		{
			name:         "4k only when tracked",
			features:     reconcile.Features{UHDMovies: true},
			media:        []plex.Media{{VideoResolution: "4k"}},
			wantStandard: library.StatusUnknown,
			wantUHD:      library.StatusAvailable,
		},
		{
			name:         "both versions when tracked",
			features:     reconcile.Features{UHDMovies: true},
			media:        []plex.Media{{VideoResolution: "1080"}, {VideoResolution: "4k"}},
			wantStandard: library.StatusAvailable,
			wantUHD:      library.StatusAvailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlexFixture(t, tt.features)
			src := NewPlexFullSource(f.cfg)

			item := plex.Item{RatingKey: "10", GUID: "com.plexapp.agents.themoviedb://550?lang=en", Type: "movie", Media: tt.media}
			require.NoError(t, src.Process(context.Background(), movieLib, item))

			title := findTitle(t, f.store, 550, library.KindMovie)
			assert.Equal(t, tt.wantStandard, title.Availability.Standard.Status)
			assert.Equal(t, tt.wantUHD, title.Availability.UHD.Status)
		})
	}
}

func TestPlexSource_NewAgentGUIDsAreCached(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	guids := &fakeGUIDs{}
	f.cfg.GUIDs = guids
	src := NewPlexFullSource(f.cfg)

	item := plex.Item{
		RatingKey: "10",
		GUID:      "plex://movie/5d7768258718ba001e311a1d",
		Type:      "movie",
		Title:     "Fight Club",
		Media:     []plex.Media{{VideoResolution: "1080"}},
	}
	// The listing carries no Guid children, so they are fetched once.
	f.client.EXPECT().Metadata(gomock.Any(), "10", false).Return(&plex.Item{
		GUIDs: []plex.GUID{{ID: "imdb://tt0137523"}, {ID: "tmdb://550"}, {ID: "tvdb://123"}},
	}, nil).Times(1)

	require.NoError(t, src.Process(context.Background(), movieLib, item))
	require.NoError(t, src.Process(context.Background(), movieLib, item))

	assert.Equal(t, metadata.MediaIDs{TMDBID: 550, TVDBID: 123, IMDBID: "tt0137523"}, guids.ids["10"])
	findTitle(t, f.store, 550, library.KindMovie)
}

func TestPlexSource_NewAgentWithoutGUIDs(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)

	item := plex.Item{RatingKey: "10", GUID: "plex://movie/abc", Type: "movie"}
	f.client.EXPECT().Metadata(gomock.Any(), "10", false).Return(&plex.Item{}, nil)

	err := src.Process(context.Background(), movieLib, item)
	assert.ErrorIs(t, err, ErrNoGUIDs)
}

func TestPlexSource_TitleMatchFallback(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)

	f.catalog.EXPECT().SearchMovie(gomock.Any(), "The Matrix", 1999).Return([]tmdb.MovieResult{
		{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30"},
		{ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15"},
	}, nil)

	item := plex.Item{RatingKey: "12", GUID: "local://12", Type: "movie", Title: "The Matrix", Year: 1999}
	require.NoError(t, src.Process(context.Background(), movieLib, item))
	findTitle(t, f.store, 603, library.KindMovie)
}

func TestPlexSource_TitleMatchRejectsWeakMatch(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)

	f.catalog.EXPECT().SearchMovie(gomock.Any(), "Home Movie 2019", 0).Return([]tmdb.MovieResult{
		{ID: 9, Title: "Home Alone", ReleaseDate: "1990-11-09"},
	}, nil)

	item := plex.Item{RatingKey: "13", GUID: "local://13", Type: "movie", Title: "Home Movie 2019"}
	err := src.Process(context.Background(), movieLib, item)
	assert.ErrorIs(t, err, ErrUnresolved)

	_, err = f.store.FindTitle(9, library.KindMovie)
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestPlexSource_ShowFromEpisode(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)
	added := sourceNow.Add(-24 * time.Hour)

	f.client.EXPECT().Metadata(gomock.Any(), "100", true).Return(&plex.Item{
		RatingKey: "100",
		GUID:      "com.plexapp.agents.thetvdb://81189?lang=en",
		Type:      "show",
		Title:     "Breaking Bad",
		AddedAt:   added.Unix(),
		Children: []plex.Item{
			{RatingKey: "101", Index: 1},
			{RatingKey: "102", Index: 2},
		},
	}, nil)
	f.catalog.EXPECT().FindByTVDB(gomock.Any(), int64(81189)).Return(&tmdb.FindResult{
		TVResults: []tmdb.TVResult{{ID: 1396}},
	}, nil)
	f.catalog.EXPECT().TVShow(gomock.Any(), int64(1396)).Return(breakingBad(), nil)
	f.client.EXPECT().Children(gomock.Any(), "101").Return(make([]plex.Item, 7), nil)
	f.client.EXPECT().Children(gomock.Any(), "102").Return(make([]plex.Item, 5), nil)

	episode := plex.Item{RatingKey: "105", ParentRatingKey: "101", GrandparentRatingKey: "100", Type: "episode"}
	require.NoError(t, src.Process(context.Background(), Target{ID: "2", Name: "TV Shows"}, episode))

	title := findTitle(t, f.store, 1396, library.KindSeries)
	assert.Equal(t, library.StatusPartiallyAvailable, title.Availability.Standard.Status)
	assert.Equal(t, "100", title.Availability.Standard.RatingKey)
	require.NotNil(t, title.TVDBID)
	assert.Equal(t, int64(81189), *title.TVDBID)
	assert.Equal(t, "tt0903747", title.IMDBID)

	require.NotNil(t, title.Season(1))
	assert.Equal(t, library.StatusAvailable, title.Season(1).Availability.Standard.Status)
	assert.Equal(t, library.StatusPartiallyAvailable, title.Season(2).Availability.Standard.Status)
	assert.Nil(t, title.Season(0), "specials are not tracked")
}

func TestPlexSource_ShowCountsEpisodesPerDimension(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{UHDSeries: true})
	src := NewPlexFullSource(f.cfg)

	f.client.EXPECT().Metadata(gomock.Any(), "100", true).Return(&plex.Item{
		RatingKey: "100",
		GUID:      "com.plexapp.agents.themoviedb://1396?lang=en",
		Type:      "show",
		Children:  []plex.Item{{RatingKey: "101", Index: 1}},
	}, nil)
	f.catalog.EXPECT().TVShow(gomock.Any(), int64(1396)).Return(breakingBad(), nil)

	hd := plex.Item{Media: []plex.Media{{VideoResolution: "1080"}}}
	uhd := plex.Item{Media: []plex.Media{{VideoResolution: "4k"}}}
	both := plex.Item{Media: []plex.Media{{VideoResolution: "1080"}, {VideoResolution: "4k"}}}
	f.client.EXPECT().Children(gomock.Any(), "101").Return([]plex.Item{hd, hd, hd, both, both, both, both, uhd}, nil)

	show := plex.Item{RatingKey: "100", Type: "show"}
	require.NoError(t, src.Process(context.Background(), Target{ID: "2"}, show))

	title := findTitle(t, f.store, 1396, library.KindSeries)
	assert.Equal(t, library.StatusAvailable, title.Season(1).Availability.Standard.Status, "7 of 7 standard")
	assert.Equal(t, library.StatusPartiallyAvailable, title.Season(1).Availability.UHD.Status, "5 of 7 in 4k")
}

func TestPlexSource_HamaAniDBMovie(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	f.cfg.Anime = &fakeAnime{entries: map[int64]animelist.Entry{22: {TMDBID: 129}}}
	src := NewPlexFullSource(f.cfg)

	f.client.EXPECT().Metadata(gomock.Any(), "200", true).Return(&plex.Item{
		RatingKey: "200",
		GUID:      "com.plexapp.agents.hama://anidb-22?lang=en",
		Type:      "show",
		Title:     "Spirited Away",
		Children:  []plex.Item{{RatingKey: "201", Index: 1}},
	}, nil)
	f.client.EXPECT().Children(gomock.Any(), "201").Return([]plex.Item{
		{RatingKey: "202", Type: "episode", Title: "Spirited Away", Media: []plex.Media{{VideoResolution: "1080"}}},
	}, nil)

	require.NoError(t, src.Process(context.Background(), Target{ID: "2"}, plex.Item{RatingKey: "200", Type: "show"}))

	title := findTitle(t, f.store, 129, library.KindMovie)
	assert.Equal(t, library.StatusAvailable, title.Availability.Standard.Status)
	assert.Equal(t, "202", title.Availability.Standard.RatingKey)
}

func TestPlexSource_HamaAniDBNeedsAnimeList(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	f.cfg.Anime = &fakeAnime{}
	src := NewPlexFullSource(f.cfg)

	f.client.EXPECT().Metadata(gomock.Any(), "200", true).Return(&plex.Item{
		RatingKey: "200",
		GUID:      "com.plexapp.agents.hama://anidb-22?lang=en",
		Type:      "show",
	}, nil)

	err := src.Process(context.Background(), Target{ID: "2"}, plex.Item{RatingKey: "200", Type: "show"})
	assert.ErrorContains(t, err, "anime list not loaded")
}

func TestPlexSource_HamaSpecials(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	f.cfg.Anime = &fakeAnime{
		entries:  map[int64]animelist.Entry{1: {TVDBID: 79895}},
		specials: map[int64]map[int]animelist.Entry{79895: {1: {TMDBID: 12429}, 2: {IMDBID: "tt0000002"}}},
	}
	src := NewPlexFullSource(f.cfg)

	show := &tmdb.TVShow{ID: 500, Seasons: []tmdb.Season{{SeasonNumber: 0, EpisodeCount: 2}, {SeasonNumber: 1, EpisodeCount: 1}}}

	f.client.EXPECT().Metadata(gomock.Any(), "300", true).Return(&plex.Item{
		RatingKey: "300",
		GUID:      "com.plexapp.agents.hama://tvdb-79895?lang=en",
		Type:      "show",
		Children:  []plex.Item{{RatingKey: "310", Index: 0}, {RatingKey: "311", Index: 1}},
	}, nil)
	f.catalog.EXPECT().FindByTVDB(gomock.Any(), int64(79895)).Return(&tmdb.FindResult{TVResults: []tmdb.TVResult{{ID: 500}}}, nil)
	f.client.EXPECT().Children(gomock.Any(), "310").Return([]plex.Item{
		{RatingKey: "320", Index: 1, Media: []plex.Media{{VideoResolution: "1080"}}},
		{RatingKey: "321", Index: 2, Media: []plex.Media{{VideoResolution: "1080"}}},
		{RatingKey: "322", Index: 3},
	}, nil)
	f.catalog.EXPECT().FindByIMDB(gomock.Any(), "tt0000002").Return(&tmdb.FindResult{MovieResults: []tmdb.MovieResult{{ID: 777}}}, nil)
	f.catalog.EXPECT().TVShow(gomock.Any(), int64(500)).Return(show, nil)
	f.client.EXPECT().Children(gomock.Any(), "311").Return(make([]plex.Item, 1), nil)

	require.NoError(t, src.Process(context.Background(), Target{ID: "2"}, plex.Item{RatingKey: "300", Type: "show"}))

	assert.Equal(t, "320", findTitle(t, f.store, 12429, library.KindMovie).Availability.Standard.RatingKey)
	assert.Equal(t, "321", findTitle(t, f.store, 777, library.KindMovie).Availability.Standard.RatingKey)
	assert.Equal(t, library.StatusAvailable, findTitle(t, f.store, 500, library.KindSeries).Availability.Standard.Status)
}

func TestPlexRecentSource_ItemsSinceLastScan(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexRecentSource(f.cfg)
	lastScan := sourceNow.Add(-time.Hour)
	require.NoError(t, f.store.SetScanState(library.ScanState{Source: "plex", LibraryID: "2", LastScan: lastScan}))

	f.client.EXPECT().RecentlyAdded(gomock.Any(), "2", "show", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, since time.Time) ([]plex.Item, error) {
			assert.True(t, since.Equal(lastScan.Add(-10*time.Minute)), "since = %v", since)
			return []plex.Item{
				{RatingKey: "e1", ParentRatingKey: "s1", GrandparentRatingKey: "show1", Type: "episode"},
				{RatingKey: "e2", ParentRatingKey: "s1", GrandparentRatingKey: "show1", Type: "episode"},
				{RatingKey: "s1", ParentRatingKey: "show1", Type: "season"},
				{RatingKey: "e3", ParentRatingKey: "s9", GrandparentRatingKey: "show2", Type: "episode"},
			}, nil
		})

	items, err := src.Items(context.Background(), Target{ID: "2", Name: "TV Shows"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "e1", items[0].RatingKey)
	assert.Equal(t, "e3", items[1].RatingKey)
}

func TestPlexRecentSource_FirstScanHasNoWindow(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexRecentSource(f.cfg)

	f.client.EXPECT().RecentlyAdded(gomock.Any(), "1", "movie", time.Time{}).Return(nil, nil)

	items, err := src.Items(context.Background(), movieLib)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPlexRecentSource_FinishRecordsScanStart(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	now := sourceNow
	f.cfg.Now = func() time.Time { return now }
	src := NewPlexRecentSource(f.cfg)

	f.client.EXPECT().RecentlyAdded(gomock.Any(), "1", "movie", gomock.Any()).Return(nil, nil)
	_, err := src.Items(context.Background(), movieLib)
	require.NoError(t, err)

	now = sourceNow.Add(5 * time.Minute)
	require.NoError(t, src.Finish(context.Background(), movieLib))

	st, err := f.store.GetScanState("plex", "1")
	require.NoError(t, err)
	assert.True(t, st.LastScan.Equal(sourceNow))
}

func TestPlexSource_IgnoresOtherItemTypes(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)
	assert.NoError(t, src.Process(context.Background(), movieLib, plex.Item{Type: "clip"}))
}

func TestPlexSource_CatalogErrorSurfaces(t *testing.T) {
	f := newPlexFixture(t, reconcile.Features{})
	src := NewPlexFullSource(f.cfg)
	boom := errors.New("catalog down")

	f.catalog.EXPECT().FindByIMDB(gomock.Any(), "tt0137523").Return(nil, boom)

	item := plex.Item{RatingKey: "10", GUID: "com.plexapp.agents.imdb://tt0137523", Type: "movie"}
	assert.ErrorIs(t, src.Process(context.Background(), movieLib, item), boom)
}
