package scanner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoopConfig paces a bundle loop.
type LoopConfig struct {
	BundleSize int
	UpdateRate time.Duration // pause between slices
}

// DefaultLoopConfig is used by sources that don't override pacing.
var DefaultLoopConfig = LoopConfig{BundleSize: 20, UpdateRate: 4 * time.Second}

func (c LoopConfig) withDefaults() LoopConfig {
	if c.BundleSize <= 0 {
		c.BundleSize = DefaultLoopConfig.BundleSize
	}
	if c.UpdateRate < 0 {
		c.UpdateRate = 0
	}
	return c
}

// RunBundles processes items in slices of cfg.BundleSize. Items within a
// slice run concurrently; slices run one after another with a pause in
// between. The session is checked before every slice.
//
// process must handle its own errors; progress, if set, is called with the
// number of items dispatched so far.
func RunBundles[T any](ctx context.Context, s *SyncSession, items []T, cfg LoopConfig,
	progress func(done int), process func(context.Context, T)) error {
	cfg = cfg.withDefaults()

	for start := 0; start < len(items); start += cfg.BundleSize {
		if err := s.Check(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if progress != nil {
			progress(start)
		}

		end := min(start+cfg.BundleSize, len(items))
		runSlice(ctx, items[start:end], process)

		if end < len(items) {
			if err := pause(ctx, s, cfg.UpdateRate); err != nil {
				return err
			}
		}
	}
	if progress != nil {
		progress(len(items))
	}
	return nil
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Items []T
	Total int // size of the whole listing, if the source reports it
}

// RunPages is RunBundles for listings fetched a page at a time. It stops at
// the first short page. progress receives the items dispatched and the
// listing total.
func RunPages[T any](ctx context.Context, s *SyncSession, cfg LoopConfig,
	fetch func(ctx context.Context, offset, size int) (Page[T], error),
	progress func(done, total int), process func(context.Context, T)) error {
	cfg = cfg.withDefaults()

	for offset := 0; ; offset += cfg.BundleSize {
		if err := s.Check(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := fetch(ctx, offset, cfg.BundleSize)
		if err != nil {
			return err
		}
		if progress != nil {
			progress(offset, page.Total)
		}

		runSlice(ctx, page.Items, process)

		if len(page.Items) < cfg.BundleSize {
			if progress != nil {
				progress(offset+len(page.Items), page.Total)
			}
			return nil
		}
		if err := pause(ctx, s, cfg.UpdateRate); err != nil {
			return err
		}
	}
}

func runSlice[T any](ctx context.Context, items []T, process func(context.Context, T)) {
	var g errgroup.Group
	for _, item := range items {
		g.Go(func() error {
			process(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
}

// pause sleeps for d unless the run is interrupted first.
func pause(ctx context.Context, s *SyncSession, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Done():
		return s.Check()
	}
}
