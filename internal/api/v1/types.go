// internal/api/v1/types.go
package v1

import (
	"time"

	"github.com/vmunix/arrsync/internal/jobs"
	"github.com/vmunix/arrsync/internal/library"
)

// slotResponse is one availability dimension of a title or season.
type slotResponse struct {
	Status              string `json:"status"`
	ServiceID           *int64 `json:"service_id,omitempty"`
	ExternalServiceID   *int64 `json:"external_service_id,omitempty"`
	ExternalServiceSlug string `json:"external_service_slug,omitempty"`
	RatingKey           string `json:"rating_key,omitempty"`
	JellyfinID          string `json:"jellyfin_id,omitempty"`
}

type seasonResponse struct {
	Number   int          `json:"number"`
	Standard slotResponse `json:"standard"`
	UHD      slotResponse `json:"4k"`
}

// titleResponse is the API representation of a title.
type titleResponse struct {
	ID           int64            `json:"id"`
	TMDBID       int64            `json:"tmdb_id"`
	Kind         string           `json:"kind"`
	TVDBID       *int64           `json:"tvdb_id,omitempty"`
	IMDBID       string           `json:"imdb_id,omitempty"`
	Name         string           `json:"name"`
	Standard     slotResponse     `json:"standard"`
	UHD          slotResponse     `json:"4k"`
	MediaAddedAt *time.Time       `json:"media_added_at,omitempty"`
	Seasons      []seasonResponse `json:"seasons,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// listTitlesResponse is the response for GET /titles.
type listTitlesResponse struct {
	Items  []titleResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// EventResponse is the API representation of a logged event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
	Payload    string `json:"payload,omitempty"`
}

type listEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type listJobsResponse struct {
	Items []jobs.Info `json:"items"`
}

type runJobResponse struct {
	Job     string `json:"job"`
	Message string `json:"message"`
}

type featuresResponse struct {
	UHDMovies bool `json:"uhd_movies"`
	UHDSeries bool `json:"uhd_series"`
}

type statusResponse struct {
	Status      string           `json:"status"`
	Version     string           `json:"version,omitempty"`
	Features    featuresResponse `json:"features"`
	RunningJobs []string         `json:"running_jobs"`
	Titles      int              `json:"titles"`
}

func slotToResponse(s library.Slot) slotResponse {
	return slotResponse{
		Status:              string(s.Status),
		ServiceID:           s.ServiceID,
		ExternalServiceID:   s.ExternalServiceID,
		ExternalServiceSlug: s.ExternalServiceSlug,
		RatingKey:           s.RatingKey,
		JellyfinID:          s.JellyfinID,
	}
}

func titleToResponse(t *library.Title) titleResponse {
	resp := titleResponse{
		ID:           t.ID,
		TMDBID:       t.TMDBID,
		Kind:         string(t.Kind),
		TVDBID:       t.TVDBID,
		IMDBID:       t.IMDBID,
		Name:         t.Name,
		Standard:     slotToResponse(t.Availability.Standard),
		UHD:          slotToResponse(t.Availability.UHD),
		MediaAddedAt: t.MediaAddedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	for _, s := range t.Seasons {
		resp.Seasons = append(resp.Seasons, seasonResponse{
			Number:   s.Number,
			Standard: slotResponse{Status: string(s.Availability.Standard.Status)},
			UHD:      slotResponse{Status: string(s.Availability.UHD.Status)},
		})
	}
	return resp
}
