// Package reconcile merges availability evidence from media servers and
// download automation into canonical title records.
package reconcile

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/vmunix/arrsync/internal/reconcile Store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/lock"
)

// Store is the persistence the reconciler needs.
type Store interface {
	// FindTitle returns library.ErrNotFound when no record exists.
	FindTitle(tmdbID int64, kind library.Kind) (*library.Title, error)
	// SaveTitle writes the title and every season in t.Seasons atomically.
	SaveTitle(t *library.Title) error
}

// Features toggles 4K tracking. A dimension is tracked when a 4K automation
// server of that kind is configured.
type Features struct {
	UHDMovies bool
	UHDSeries bool
}

// Link carries the linkage fields a source can prove. Empty values are ignored.
type Link struct {
	ServiceID           *int64
	ExternalServiceID   *int64
	ExternalServiceSlug string
	RatingKey           string
	JellyfinID          string
}

// Reconciler applies evidence to title records under a per-title lock.
type Reconciler struct {
	store    Store
	locks    *lock.KeyedMutex
	events   events.Publisher
	features Features
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithPublisher sets where availability events are sent.
func WithPublisher(p events.Publisher) Option {
	return func(r *Reconciler) { r.events = p }
}

// New creates a reconciler. locks must be shared by every scanner writing
// to the same store.
func New(store Store, locks *lock.KeyedMutex, features Features, logger *slog.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reconciler{
		store:    store,
		locks:    locks,
		features: features,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Features reports which 4K dimensions are tracked.
func (r *Reconciler) Features() Features { return r.features }

type checkpointKey struct{}

// WithCheckpoint returns a context whose writes are gated by check. The
// reconciler calls check right before persisting; a non-nil error aborts the
// write and is returned to the caller.
func WithCheckpoint(ctx context.Context, check func() error) context.Context {
	return context.WithValue(ctx, checkpointKey{}, check)
}

func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if check, ok := ctx.Value(checkpointKey{}).(func() error); ok && check != nil {
		return check()
	}
	return nil
}

// load returns the existing record or nil.
func (r *Reconciler) load(tmdbID int64, kind library.Kind) (*library.Title, error) {
	t, err := r.store.FindTitle(tmdbID, kind)
	if errors.Is(err, library.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %d: %w", kind, tmdbID, err)
	}
	return t, nil
}

func (r *Reconciler) save(t *library.Title) error {
	if err := r.store.SaveTitle(t); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			// Two writers created the same record; the keyed mutex should make this impossible.
			r.logger.Error("duplicate title write", "tmdb_id", t.TMDBID, "kind", t.Kind, "error", err)
		}
		return fmt.Errorf("save %s %d: %w", t.Kind, t.TMDBID, err)
	}
	return nil
}

func (r *Reconciler) publish(ctx context.Context, e events.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(ctx, e); err != nil {
		r.logger.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

// applyLink copies non-empty linkage into slot and reports whether anything changed.
func applyLink(slot *library.Slot, l Link, withServerKeys bool) bool {
	changed := false
	if l.ServiceID != nil && !equalID(slot.ServiceID, l.ServiceID) {
		slot.ServiceID = l.ServiceID
		changed = true
	}
	if l.ExternalServiceID != nil && !equalID(slot.ExternalServiceID, l.ExternalServiceID) {
		slot.ExternalServiceID = l.ExternalServiceID
		changed = true
	}
	if l.ExternalServiceSlug != "" && slot.ExternalServiceSlug != l.ExternalServiceSlug {
		slot.ExternalServiceSlug = l.ExternalServiceSlug
		changed = true
	}
	if withServerKeys {
		changed = applyServerKeys(slot, l) || changed
	}
	return changed
}

// applyServerKeys copies the media server identifiers only.
func applyServerKeys(slot *library.Slot, l Link) bool {
	changed := false
	if l.RatingKey != "" && slot.RatingKey != l.RatingKey {
		slot.RatingKey = l.RatingKey
		changed = true
	}
	if l.JellyfinID != "" && slot.JellyfinID != l.JellyfinID {
		slot.JellyfinID = l.JellyfinID
		changed = true
	}
	return changed
}

func equalID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
