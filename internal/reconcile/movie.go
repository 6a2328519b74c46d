package reconcile

import (
	"context"
	"time"

	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/lock"
	"github.com/vmunix/arrsync/internal/metrics"
)

// MovieEvidence is what one source proved about a movie.
type MovieEvidence struct {
	Dimension    library.Dimension
	Processing   bool // tracked by automation but no file yet
	MediaAddedAt *time.Time
	Link         Link
	Title        string
	IMDBID       string
	Source       string
}

// ProcessMovie records that a movie exists in one dimension.
//
// A dimension that is already AVAILABLE is never downgraded; repeated calls
// with the same evidence leave the record untouched.
func (r *Reconciler) ProcessMovie(ctx context.Context, tmdbID int64, ev MovieEvidence) error {
	return r.locks.RunExclusive(ctx, lock.Key(string(library.KindMovie), tmdbID), func(ctx context.Context) error {
		return r.processMovie(ctx, tmdbID, ev)
	})
}

func (r *Reconciler) processMovie(ctx context.Context, tmdbID int64, ev MovieEvidence) error {
	dim := ev.Dimension
	if dim == library.DimensionUHD && !r.features.UHDMovies {
		dim = library.DimensionStandard
	}
	want := library.StatusAvailable
	if ev.Processing {
		want = library.StatusProcessing
	}

	existing, err := r.load(tmdbID, library.KindMovie)
	if err != nil {
		return err
	}

	if existing == nil {
		t := &library.Title{
			TMDBID:       tmdbID,
			Kind:         library.KindMovie,
			IMDBID:       ev.IMDBID,
			Name:         ev.Title,
			MediaAddedAt: ev.MediaAddedAt,
		}
		t.Availability.Standard.Status = library.StatusUnknown
		t.Availability.UHD.Status = library.StatusUnknown
		slot := t.Availability.At(dim)
		slot.Status = want
		applyLink(slot, ev.Link, true)

		if err := checkpoint(ctx); err != nil {
			return err
		}
		if err := r.save(t); err != nil {
			return err
		}
		metrics.TitleWrites.WithLabelValues(string(library.KindMovie), "create").Inc()
		r.logger.Info("movie added", "tmdb_id", tmdbID, "title", ev.Title, "dimension", dim, "status", want, "source", ev.Source)
		if want == library.StatusAvailable {
			r.announce(ctx, t, dim, ev.Source)
		}
		return nil
	}

	changed := false
	becameAvailable := false
	slot := existing.Availability.At(dim)
	if slot.Status != library.StatusAvailable && slot.Status != want {
		slot.Status = want
		becameAvailable = want == library.StatusAvailable
		if ev.MediaAddedAt != nil {
			existing.MediaAddedAt = ev.MediaAddedAt
		}
		changed = true
	}
	if existing.MediaAddedAt == nil && ev.MediaAddedAt != nil {
		existing.MediaAddedAt = ev.MediaAddedAt
		changed = true
	}
	if applyLink(slot, ev.Link, true) {
		changed = true
	}
	if existing.IMDBID == "" && ev.IMDBID != "" {
		existing.IMDBID = ev.IMDBID
		changed = true
	}
	if existing.Name == "" && ev.Title != "" {
		existing.Name = ev.Title
		changed = true
	}

	if !changed {
		r.logger.Debug("movie unchanged", "tmdb_id", tmdbID, "dimension", dim, "source", ev.Source)
		return nil
	}
	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := r.save(existing); err != nil {
		return err
	}
	metrics.TitleWrites.WithLabelValues(string(library.KindMovie), "update").Inc()
	r.logger.Info("movie updated", "tmdb_id", tmdbID, "title", existing.Name, "dimension", dim, "status", slot.Status, "source", ev.Source)
	if becameAvailable {
		r.announce(ctx, existing, dim, ev.Source)
	}
	return nil
}

func (r *Reconciler) announce(ctx context.Context, t *library.Title, dim library.Dimension, source string) {
	metrics.TitlesBecameAvailable.WithLabelValues(string(t.Kind), dim.String()).Inc()
	r.publish(ctx, &events.TitleAvailable{
		BaseEvent: events.NewBaseEvent(events.EventTitleAvailable, events.EntityTitle, t.ID),
		TMDBID:    t.TMDBID,
		Kind:      string(t.Kind),
		Dimension: dim.String(),
		Title:     t.Name,
		Source:    source,
	})
}
