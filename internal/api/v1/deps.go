package v1

import (
	"context"
	"errors"

	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/jobs"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/reconcile"
)

//go:generate mockgen -destination=mocks/mock_deps.go -package=mocks github.com/vmunix/arrsync/internal/api/v1 JobRunner,TitleStore,EventLister

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// JobRunner lists and controls the sync jobs.
type JobRunner interface {
	List() []jobs.Info
	Get(id string) (jobs.Info, error)
	Run(id string) error
	Cancel(id string) error
}

// TitleStore reads reconciled titles.
type TitleStore interface {
	ListTitles(f library.TitleFilter) ([]*library.Title, int, error)
	GetTitle(id int64) (*library.Title, error)
}

// EventLister pages through the persisted event log.
type EventLister interface {
	Recent(limit, offset int) ([]events.RawEvent, int, error)
}

// ServiceCheck tests connectivity to one external service.
type ServiceCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Titles TitleStore
	Jobs   JobRunner

	// Optional dependencies (nil if not configured)
	EventLog EventLister
	Services []ServiceCheck

	Features reconcile.Features
	Version  string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Titles == nil {
		return errors.New("title store is required")
	}
	if d.Jobs == nil {
		return errors.New("job runner is required")
	}
	return nil
}
