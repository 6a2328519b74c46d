package scanner

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/arrsync/internal/animelist"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/lock"
	"github.com/vmunix/arrsync/internal/metadata"
	"github.com/vmunix/arrsync/internal/migrations"
	"github.com/vmunix/arrsync/internal/reconcile"
	"github.com/vmunix/arrsync/internal/tmdb"
)

var sourceNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setupLibrary(t *testing.T, features reconcile.Features) (*reconcile.Reconciler, *library.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	store := library.NewStore(db)
	rec := reconcile.New(store, lock.New(), features, nil,
		reconcile.WithClock(func() time.Time { return sourceNow }))
	return rec, store
}

func findTitle(t *testing.T, store *library.Store, tmdbID int64, kind library.Kind) *library.Title {
	t.Helper()
	title, err := store.FindTitle(tmdbID, kind)
	require.NoError(t, err)
	return title
}

// breakingBad is a catalog series with specials and two regular seasons.
func breakingBad() *tmdb.TVShow {
	return &tmdb.TVShow{
		ID:   1396,
		Name: "Breaking Bad",
		Seasons: []tmdb.Season{
			{SeasonNumber: 0, EpisodeCount: 9},
			{SeasonNumber: 1, EpisodeCount: 7},
			{SeasonNumber: 2, EpisodeCount: 13},
		},
		ExternalIDs: tmdb.ExternalIDs{IMDBID: "tt0903747", TVDBID: 81189},
	}
}

type fakeAnime struct {
	mu       sync.Mutex
	syncs    int
	entries  map[int64]animelist.Entry
	specials map[int64]map[int]animelist.Entry
}

func (f *fakeAnime) Sync(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
	return nil
}

func (f *fakeAnime) Loaded() bool { return len(f.entries) > 0 }

func (f *fakeAnime) ByAniDB(id int64) (animelist.Entry, bool) {
	e, ok := f.entries[id]
	return e, ok
}

func (f *fakeAnime) Special(tvdbID int64, episode int) (animelist.Entry, bool) {
	e, ok := f.specials[tvdbID][episode]
	return e, ok
}

type fakeGUIDs struct {
	mu  sync.Mutex
	ids map[string]metadata.MediaIDs
}

func (f *fakeGUIDs) Get(_ context.Context, key string) (metadata.MediaIDs, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids, ok := f.ids[key]
	return ids, ok, nil
}

func (f *fakeGUIDs) Set(_ context.Context, key string, ids metadata.MediaIDs) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids == nil {
		f.ids = map[string]metadata.MediaIDs{}
	}
	f.ids[key] = ids
	return nil
}

func int64Ptr(v int64) *int64 { return &v }
