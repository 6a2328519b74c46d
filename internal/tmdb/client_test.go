package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Movie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/550", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		resp := Movie{
			ID:          550,
			IMDBID:      "tt0137523",
			Title:       "Fight Club",
			ReleaseDate: "1999-10-15",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.Movie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int64(550), movie.ID)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, "tt0137523", movie.IMDBID)
	assert.Equal(t, 1999, movie.Year())
}

func TestClient_Movie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.Movie(context.Background(), 99999999)
	assert.Nil(t, movie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Movie_Cached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(Movie{ID: 550, Title: "Fight Club"})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithCacheTTL(time.Hour))

	_, err := client.Movie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	_, err = client.Movie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "should use cache, not call API again")
}

func TestClient_ConcurrentRequestsCoalesce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode(Movie{ID: 603, Title: "The Matrix"})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := client.Movie(context.Background(), 603)
			assert.NoError(t, err)
			if m != nil {
				assert.Equal(t, "The Matrix", m.Title)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TVShow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/1396", r.URL.Path)
		assert.Equal(t, "external_ids", r.URL.Query().Get("append_to_response"))
		_, _ = w.Write([]byte(`{
			"id": 1396,
			"name": "Breaking Bad",
			"first_air_date": "2008-01-20",
			"seasons": [
				{"season_number": 0, "episode_count": 9, "name": "Specials"},
				{"season_number": 1, "episode_count": 7, "name": "Season 1"},
				{"season_number": 2, "episode_count": 13, "name": "Season 2"}
			],
			"external_ids": {"imdb_id": "tt0903747", "tvdb_id": 81189}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	show, err := client.TVShow(context.Background(), 1396)
	require.NoError(t, err)
	assert.Equal(t, "Breaking Bad", show.Name)
	assert.Equal(t, int64(81189), show.ExternalIDs.TVDBID)
	assert.Equal(t, "tt0903747", show.ExternalIDs.IMDBID)
	require.Len(t, show.Seasons, 3)

	s2, ok := show.Season(2)
	require.True(t, ok)
	assert.Equal(t, 13, s2.EpisodeCount)

	_, ok = show.Season(7)
	assert.False(t, ok)
}

func TestClient_FindByTVDB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/find/81189", r.URL.Path)
		assert.Equal(t, "tvdb_id", r.URL.Query().Get("external_source"))
		_, _ = w.Write([]byte(`{"movie_results": [], "tv_results": [{"id": 1396, "name": "Breaking Bad"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	res, err := client.FindByTVDB(context.Background(), 81189)
	require.NoError(t, err)
	require.Len(t, res.TVResults, 1)
	assert.Equal(t, int64(1396), res.TVResults[0].ID)
	assert.Empty(t, res.MovieResults)
}

func TestClient_FindByIMDB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/find/tt0137523", r.URL.Path)
		assert.Equal(t, "imdb_id", r.URL.Query().Get("external_source"))
		_, _ = w.Write([]byte(`{"movie_results": [{"id": 550, "title": "Fight Club", "release_date": "1999-10-15"}], "tv_results": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	res, err := client.FindByIMDB(context.Background(), "tt0137523")
	require.NoError(t, err)
	require.Len(t, res.MovieResults, 1)
	assert.Equal(t, int64(550), res.MovieResults[0].ID)
	assert.Equal(t, 1999, res.MovieResults[0].Year())
}

func TestClient_SearchMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "The Matrix", r.URL.Query().Get("query"))
		assert.Equal(t, "1999", r.URL.Query().Get("year"))
		_, _ = w.Write([]byte(`{"results": [{"id": 603, "title": "The Matrix", "release_date": "1999-03-30"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	results, err := client.SearchMovie(context.Background(), "The Matrix", 1999)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(603), results[0].ID)
}

func TestClient_ServerErrorNotCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(Movie{ID: 550, Title: "Fight Club"})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.Movie(context.Background(), 550)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	movie, err := client.Movie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithRateLimit(0, 0))

	for i := range 10 {
		_, _ = client.Movie(context.Background(), int64(i+1))
	}
	assert.Equal(t, int32(5), calls.Load(), "breaker should stop calling the API once open")
}
