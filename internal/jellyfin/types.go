package jellyfin

import "time"

// Library is a Jellyfin collection folder.
type Library struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	CollectionType string `json:"CollectionType"` // movies, tvshows
	Type           string `json:"Type"`
}

// Kind maps the collection type to "movie" or "show".
func (l Library) Kind() string {
	if l.CollectionType == "movies" {
		return "movie"
	}
	return "show"
}

// ProviderIDs are the external ids Jellyfin resolved for an item.
type ProviderIDs struct {
	Tmdb string `json:"Tmdb,omitempty"`
	Imdb string `json:"Imdb,omitempty"`
	Tvdb string `json:"Tvdb,omitempty"`
}

// MediaStream is one stream inside a media source.
type MediaStream struct {
	Type   string `json:"Type"` // Video, Audio, Subtitle
	Codec  string `json:"Codec"`
	Width  int    `json:"Width,omitempty"`
	Height int    `json:"Height,omitempty"`
}

// MediaSource is one file backing an item.
type MediaSource struct {
	ID           string        `json:"Id"`
	Path         string        `json:"Path"`
	MediaStreams []MediaStream `json:"MediaStreams"`
}

// Item is a movie, series, season or episode.
type Item struct {
	ID                string        `json:"Id"`
	Name              string        `json:"Name"`
	Type              string        `json:"Type"` // Movie, Series, Season, Episode
	SeriesID          string        `json:"SeriesId,omitempty"`
	SeasonID          string        `json:"SeasonId,omitempty"`
	IndexNumber       int           `json:"IndexNumber,omitempty"`
	ParentIndexNumber int           `json:"ParentIndexNumber,omitempty"`
	ProductionYear    int           `json:"ProductionYear,omitempty"`
	DateCreated       string        `json:"DateCreated,omitempty"`
	ProviderIDs       ProviderIDs   `json:"ProviderIds"`
	MediaSources      []MediaSource `json:"MediaSources,omitempty"`
}

// Created parses DateCreated. It returns the zero time when absent or
// malformed.
func (i Item) Created() time.Time {
	t, err := time.Parse(time.RFC3339Nano, i.DateCreated)
	if err != nil {
		return time.Time{}
	}
	return t
}

// VideoWidths returns the width of every video stream across all sources.
func (i Item) VideoWidths() []int {
	var widths []int
	for _, src := range i.MediaSources {
		for _, s := range src.MediaStreams {
			if s.Type == "Video" {
				widths = append(widths, s.Width)
			}
		}
	}
	return widths
}

type itemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}

type librariesResponse struct {
	Items []Library `json:"Items"`
}

type userResponse struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}
