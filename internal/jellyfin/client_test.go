package jellyfin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Emby-Token"))
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_Libraries(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/Library/MediaFolders": `{"Items": [
			{"Id": "lib1", "Name": "Movies", "CollectionType": "movies", "Type": "CollectionFolder"},
			{"Id": "lib2", "Name": "Shows", "CollectionType": "tvshows", "Type": "CollectionFolder"},
			{"Id": "x", "Name": "Playlists", "Type": "ManualPlaylistsFolder"}
		]}`,
	})

	libs, err := New(server.URL, "secret", nil).Libraries(context.Background())
	require.NoError(t, err)
	require.Len(t, libs, 2)
	assert.Equal(t, "movie", libs[0].Kind())
	assert.Equal(t, "show", libs[1].Kind())
}

func TestClient_ResolvesUserOnce(t *testing.T) {
	var userCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Users/Me":
			userCalls.Add(1)
			_, _ = w.Write([]byte(`{"Id": "u1", "Name": "admin"}`))
		case "/Users/u1/Items":
			assert.Equal(t, "lib1", r.URL.Query().Get("ParentId"))
			assert.Equal(t, "Movie,Series", r.URL.Query().Get("IncludeItemTypes"))
			_, _ = w.Write([]byte(`{"Items": [{"Id": "m1", "Name": "Fight Club", "Type": "Movie"}], "TotalRecordCount": 1}`))
		case "/Users/u1/Items/Latest":
			_, _ = w.Write([]byte(`[{"Id": "e1", "Type": "Episode", "SeriesId": "s1", "SeasonId": "se1"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)

	items, err := client.LibraryContents(context.Background(), "lib1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fight Club", items[0].Name)

	latest, err := client.Latest(context.Background(), "lib1")
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "s1", latest[0].SeriesID)

	assert.Equal(t, int32(1), userCalls.Load())
}

func TestClient_ItemDetail(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/Users/u1/Items/m1": `{
			"Id": "m1", "Name": "Fight Club", "Type": "Movie",
			"DateCreated": "2023-05-01T10:00:00.0000000Z",
			"ProviderIds": {"Tmdb": "550", "Imdb": "tt0137523"},
			"MediaSources": [{"Id": "ms1", "MediaStreams": [
				{"Type": "Video", "Width": 3840},
				{"Type": "Audio"}
			]}, {"Id": "ms2", "MediaStreams": [{"Type": "Video", "Width": 1920}]}]
		}`,
	})

	item, err := New(server.URL, "secret", nil, WithUserID("u1")).Item(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "550", item.ProviderIDs.Tmdb)
	assert.Equal(t, []int{3840, 1920}, item.VideoWidths())
	assert.Equal(t, time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC), item.Created())
}

func TestClient_SeasonsAndEpisodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Shows/s1/Seasons":
			_, _ = w.Write([]byte(`{"Items": [{"Id": "se1", "Type": "Season", "IndexNumber": 1}]}`))
		case "/Shows/s1/Episodes":
			assert.Equal(t, "se1", r.URL.Query().Get("seasonId"))
			assert.Equal(t, "MediaSources", r.URL.Query().Get("Fields"))
			_, _ = w.Write([]byte(`{"Items": [
				{"Id": "e1", "Type": "Episode", "IndexNumber": 1, "MediaSources": [{"MediaStreams": [{"Type": "Video", "Width": 1920}]}]},
				{"Id": "e2", "Type": "Episode", "IndexNumber": 2}
			]}`))
		}
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil, WithUserID("u1"))

	seasons, err := client.Seasons(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, 1, seasons[0].IndexNumber)

	episodes, err := client.Episodes(context.Background(), "s1", "se1")
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, []int{1920}, episodes[0].VideoWidths())
	assert.Empty(t, episodes[1].VideoWidths())
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Users/u1/Items/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil, WithUserID("u1"))

	_, err := client.Item(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.Libraries(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = New(server.URL, "", nil).Libraries(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestItem_CreatedMalformed(t *testing.T) {
	assert.True(t, Item{}.Created().IsZero())
	assert.True(t, Item{DateCreated: "yesterday"}.Created().IsZero())
}
