package reconcile

import (
	"context"
	"time"

	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/lock"
	"github.com/vmunix/arrsync/internal/metrics"
)

// SeasonEvidence is what one source proved about a single season.
type SeasonEvidence struct {
	Number        int
	TotalEpisodes int // from the catalog
	Episodes      int // present in the standard dimension
	EpisodesUHD   int // present in the 4K dimension
	Processing    bool
	UHDOverride   bool // Processing refers to the 4K dimension
}

// ShowEvidence is what one source proved about a series.
type ShowEvidence struct {
	TVDBID       *int64
	IMDBID       string
	Title        string
	Seasons      []SeasonEvidence
	Dimension    library.Dimension // dimension the Link belongs to
	Link         Link
	MediaAddedAt *time.Time
	Source       string
}

// ProcessShow merges season evidence into a series and recomputes its
// aggregate status per dimension. Specials (season 0) are ignored.
func (r *Reconciler) ProcessShow(ctx context.Context, tmdbID int64, ev ShowEvidence) error {
	return r.locks.RunExclusive(ctx, lock.Key(string(library.KindSeries), tmdbID), func(ctx context.Context) error {
		return r.processShow(ctx, tmdbID, ev)
	})
}

// seriesDims returns the dimensions tracked for series.
func (r *Reconciler) seriesDims() []library.Dimension {
	if r.features.UHDSeries {
		return library.Dimensions
	}
	return library.Dimensions[:1]
}

func (r *Reconciler) processShow(ctx context.Context, tmdbID int64, ev ShowEvidence) error {
	linkDim := ev.Dimension
	if linkDim == library.DimensionUHD && !r.features.UHDSeries {
		linkDim = library.DimensionStandard
	}

	t, err := r.load(tmdbID, library.KindSeries)
	if err != nil {
		return err
	}
	created := t == nil
	if created {
		t = &library.Title{
			TMDBID: tmdbID,
			Kind:   library.KindSeries,
			TVDBID: ev.TVDBID,
			IMDBID: ev.IMDBID,
			Name:   ev.Title,
		}
		t.Availability.Standard.Status = library.StatusUnknown
		t.Availability.UHD.Status = library.StatusUnknown
	}

	dims := r.seriesDims()
	before := make(map[library.Dimension]int, len(dims))
	for _, d := range dims {
		before[d] = countAvailable(t.Seasons, d)
	}

	changed := created
	newSeasons := make(map[int]bool)
	nowAvailable := make(map[library.Dimension][]int)
	episodes := map[library.Dimension]int{}

	for _, se := range ev.Seasons {
		if se.Number <= 0 {
			continue
		}
		episodes[library.DimensionStandard] += se.Episodes
		episodes[library.DimensionUHD] += se.EpisodesUHD

		season := t.Season(se.Number)
		if season == nil {
			season = &library.Season{Number: se.Number}
			season.Availability.Standard.Status = library.StatusUnknown
			season.Availability.UHD.Status = library.StatusUnknown
			t.Seasons = append(t.Seasons, season)
			newSeasons[se.Number] = true
			changed = true
		}

		for _, d := range dims {
			count, processing := se.Episodes, se.Processing && !se.UHDOverride
			if d == library.DimensionUHD {
				count, processing = se.EpisodesUHD, se.Processing && se.UHDOverride
			}
			slot := season.Availability.At(d)
			next := seasonStatus(slot.Status, se.TotalEpisodes, count, processing)
			if next == slot.Status {
				continue
			}
			if next == library.StatusAvailable {
				nowAvailable[d] = append(nowAvailable[d], se.Number)
			}
			slot.Status = next
			changed = true
		}
	}

	hasEvidence := len(ev.Seasons) > 0
	becameAvailable := make(map[library.Dimension]bool)
	for _, d := range dims {
		statuses := make([]library.Status, 0, len(t.Seasons))
		stay := t.Availability.Status(d) == library.StatusAvailable
		for _, s := range t.Seasons {
			if s.Number <= 0 {
				continue
			}
			st := s.Availability.Status(d)
			statuses = append(statuses, st)
			if newSeasons[s.Number] && st != library.StatusUnknown && st != library.StatusDeleted {
				stay = false
			}
		}

		slot := t.Availability.At(d)
		next := aggregate(slot.Status, statuses, hasEvidence || d != linkDim, stay)
		if next != slot.Status {
			becameAvailable[d] = next == library.StatusAvailable
			slot.Status = next
			changed = true
		}

		if countAvailable(t.Seasons, d) > before[d] {
			t.LastSeasonChange = r.now()
			if d == library.DimensionStandard && ev.MediaAddedAt != nil {
				t.MediaAddedAt = ev.MediaAddedAt
			}
			changed = true
		}
	}

	if applyLink(t.Availability.At(linkDim), ev.Link, false) {
		changed = true
	}
	for _, d := range dims {
		if episodes[d] > 0 && applyServerKeys(t.Availability.At(d), ev.Link) {
			changed = true
		}
	}
	if t.MediaAddedAt == nil && ev.MediaAddedAt != nil && episodes[library.DimensionStandard] > 0 {
		t.MediaAddedAt = ev.MediaAddedAt
		changed = true
	}
	if t.TVDBID == nil && ev.TVDBID != nil {
		t.TVDBID = ev.TVDBID
		changed = true
	}
	if t.IMDBID == "" && ev.IMDBID != "" {
		t.IMDBID = ev.IMDBID
		changed = true
	}
	if t.Name == "" && ev.Title != "" {
		t.Name = ev.Title
		changed = true
	}

	if !changed {
		r.logger.Debug("series unchanged", "tmdb_id", tmdbID, "source", ev.Source)
		return nil
	}
	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := r.save(t); err != nil {
		return err
	}

	op := "update"
	if created {
		op = "create"
	}
	metrics.TitleWrites.WithLabelValues(string(library.KindSeries), op).Inc()
	r.logger.Info("series reconciled", "tmdb_id", tmdbID, "title", t.Name,
		"status", t.Availability.Standard.Status, "status_4k", t.Availability.UHD.Status,
		"seasons", len(t.Seasons), "source", ev.Source)

	for _, d := range dims {
		if len(nowAvailable[d]) > 0 {
			r.publish(ctx, &events.SeasonsAvailable{
				BaseEvent: events.NewBaseEvent(events.EventSeasonsAvailable, events.EntityTitle, t.ID),
				TMDBID:    t.TMDBID,
				Dimension: d.String(),
				Seasons:   nowAvailable[d],
				Title:     t.Name,
			})
		}
		if becameAvailable[d] {
			r.announce(ctx, t, d, ev.Source)
		}
	}
	return nil
}
