// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

// Movie represents TMDB movie metadata.
type Movie struct {
	ID            int64  `json:"id"`
	IMDBID        string `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"` // "2024-03-01"
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int { return year(m.ReleaseDate) }

// TVShow represents TMDB series metadata with its external ids.
type TVShow struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	FirstAirDate string      `json:"first_air_date"`
	Seasons      []Season    `json:"seasons"`
	ExternalIDs  ExternalIDs `json:"external_ids"`
}

// Season is a season summary as listed on a series.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
}

// Season returns the season with the given number.
func (s *TVShow) Season(number int) (Season, bool) {
	for _, season := range s.Seasons {
		if season.SeasonNumber == number {
			return season, true
		}
	}
	return Season{}, false
}

// ExternalIDs are the cross-reference ids TMDB knows for a series.
type ExternalIDs struct {
	IMDBID string `json:"imdb_id"`
	TVDBID int64  `json:"tvdb_id"`
}

// MovieResult is a movie as returned by find and search endpoints.
type MovieResult struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
}

// Year extracts the year from ReleaseDate.
func (m MovieResult) Year() int { return year(m.ReleaseDate) }

// TVResult is a series as returned by the find endpoint.
type TVResult struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FirstAirDate string `json:"first_air_date"`
}

// FindResult is the response of /find/{external_id}.
type FindResult struct {
	MovieResults []MovieResult `json:"movie_results"`
	TVResults    []TVResult    `json:"tv_results"`
}

type searchResponse struct {
	Results []MovieResult `json:"results"`
}

func year(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
