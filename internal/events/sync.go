package events

import "time"

// Entity types
const (
	EntityTitle = "title"
	EntityScan  = "scan"
)

// Event types
const (
	EventScanStarted      = "scan.started"
	EventScanCompleted    = "scan.completed"
	EventTitleAvailable   = "title.available"
	EventSeasonsAvailable = "seasons.available"
)

// ScanStarted is emitted when a sync job begins a new session.
type ScanStarted struct {
	BaseEvent
	Job       string `json:"job"`
	SessionID string `json:"session_id"`
}

// ScanCompleted is emitted when a sync session ends, for any reason.
type ScanCompleted struct {
	BaseEvent
	Job       string        `json:"job"`
	SessionID string        `json:"session_id"`
	Result    string        `json:"result"` // "completed", "superseded", "cancelled", "failed"
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// TitleAvailable is emitted when a dimension of a title becomes AVAILABLE.
type TitleAvailable struct {
	BaseEvent
	TMDBID    int64  `json:"tmdb_id"`
	Kind      string `json:"kind"`
	Dimension string `json:"dimension"` // "standard" or "4k"
	Title     string `json:"title"`
	Source    string `json:"source,omitempty"`
}

// SeasonsAvailable is emitted when a series gains fully available seasons.
type SeasonsAvailable struct {
	BaseEvent
	TMDBID    int64  `json:"tmdb_id"`
	Dimension string `json:"dimension"`
	Seasons   []int  `json:"seasons"`
	Title     string `json:"title"`
}
