// Package library persists reconciled availability for movies and series.
package library

import (
	"time"
)

// Kind distinguishes movies from series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Status is the availability of a title or season in one dimension.
type Status string

const (
	StatusUnknown            Status = "UNKNOWN"
	StatusPending            Status = "PENDING"
	StatusProcessing         Status = "PROCESSING"
	StatusPartiallyAvailable Status = "PARTIALLY_AVAILABLE"
	StatusAvailable          Status = "AVAILABLE"
	StatusDeleted            Status = "DELETED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUnknown, StatusPending, StatusProcessing,
		StatusPartiallyAvailable, StatusAvailable, StatusDeleted:
		return true
	}
	return false
}

// Dimension selects the standard or the 4K availability slot.
type Dimension int

const (
	DimensionStandard Dimension = iota
	DimensionUHD
)

// Dimensions lists every dimension in a stable order.
var Dimensions = []Dimension{DimensionStandard, DimensionUHD}

func (d Dimension) String() string {
	if d == DimensionUHD {
		return "4k"
	}
	return "standard"
}

// Slot is the availability of a title or season in one dimension.
// Linkage fields are only populated on titles.
type Slot struct {
	Status              Status
	ServiceID           *int64 // configured Sonarr/Radarr server
	ExternalServiceID   *int64 // id inside that server
	ExternalServiceSlug string
	RatingKey           string // Plex
	JellyfinID          string
}

// Availability holds one Slot per dimension.
type Availability struct {
	Standard Slot
	UHD      Slot
}

// At returns the slot for d.
func (a *Availability) At(d Dimension) *Slot {
	if d == DimensionUHD {
		return &a.UHD
	}
	return &a.Standard
}

// Status returns the status for d.
func (a Availability) Status(d Dimension) Status {
	if d == DimensionUHD {
		return a.UHD.Status
	}
	return a.Standard.Status
}

// Title is the canonical availability record for one catalog id and kind.
type Title struct {
	ID               int64
	TMDBID           int64
	Kind             Kind
	TVDBID           *int64
	IMDBID           string
	Name             string
	Availability     Availability
	MediaAddedAt     *time.Time
	LastSeasonChange time.Time
	Seasons          []*Season // series only; loaded by GetTitle and FindTitle
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Season is the per-season availability of a series.
type Season struct {
	ID           int64
	TitleID      int64
	Number       int // 0 = specials
	Availability Availability
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Season returns the season with the given number, or nil.
func (t *Title) Season(number int) *Season {
	for _, s := range t.Seasons {
		if s.Number == number {
			return s
		}
	}
	return nil
}

// ScanState remembers when a library was last scanned.
type ScanState struct {
	Source    string // "plex", "jellyfin"
	LibraryID string
	LastScan  time.Time
}
