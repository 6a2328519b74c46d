// Package scanner runs library sync jobs: it walks a source's libraries or
// servers in paced bundles and hands every item to the reconciler.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/metrics"
	"github.com/vmunix/arrsync/internal/reconcile"
)

// Target is one library or automation server a source scans.
type Target struct {
	ID   string
	Name string
}

// Source adapts one external system to the generic scan loop.
type Source[T any] interface {
	// Name is the source label used in logs and status ("plex", "sonarr").
	Name() string
	// Targets lists what this run should scan. An error means the source is
	// unavailable and ends the run.
	Targets(ctx context.Context) ([]Target, error)
	// Items lists the work for one target.
	Items(ctx context.Context, target Target) ([]T, error)
	// Process reconciles one item. Errors are logged and the item skipped.
	Process(ctx context.Context, target Target, item T) error
}

// Pager is implemented by sources that list a target page by page.
// When present it is used instead of Items.
type Pager[T any] interface {
	Page(ctx context.Context, target Target, offset, size int) (Page[T], error)
}

// Finisher is implemented by sources that record state after a target has
// been fully walked.
type Finisher interface {
	Finish(ctx context.Context, target Target) error
}

// Status is a snapshot of a job's progress.
type Status struct {
	Job           string    `json:"job"`
	Running       bool      `json:"running"`
	Progress      int       `json:"progress"`
	Total         int       `json:"total"`
	CurrentSource string    `json:"current_source,omitempty"`
	Sources       []string  `json:"sources"`
	SessionID     string    `json:"session_id,omitempty"`
	StartedAt     time.Time `json:"started_at,omitzero"`
	LastResult    string    `json:"last_result,omitempty"`
	LastFinished  time.Time `json:"last_finished,omitzero"`
}

// Scanner runs one job over one source.
type Scanner[T any] struct {
	job    string
	source Source[T]
	cfg    LoopConfig
	events events.Publisher
	logger *slog.Logger
	coord  Coordinator

	mu     sync.RWMutex
	status Status
	done   int // items finished in the current target
	base   int // items finished in earlier targets
}

// ScannerOption configures a Scanner.
type ScannerOption func(*scannerOptions)

type scannerOptions struct {
	events events.Publisher
}

// WithEvents publishes scan start and completion events.
func WithEvents(p events.Publisher) ScannerOption {
	return func(o *scannerOptions) { o.events = p }
}

// New creates a scanner for job.
func New[T any](job string, source Source[T], cfg LoopConfig, logger *slog.Logger, opts ...ScannerOption) *Scanner[T] {
	if logger == nil {
		logger = slog.Default()
	}
	var o scannerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Scanner[T]{
		job:    job,
		source: source,
		cfg:    cfg,
		events: o.events,
		logger: logger.With("job", job),
		status: Status{Job: job, Sources: []string{}},
	}
}

// Job returns the job id.
func (s *Scanner[T]) Job() string { return s.job }

// Status returns a snapshot of the current or last run.
func (s *Scanner[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	st.Sources = append([]string(nil), s.status.Sources...)
	st.Running = s.coord.Running()
	return st
}

// Cancel stops the current run at its next check. Items already being
// reconciled finish first.
func (s *Scanner[T]) Cancel() {
	if s.coord.Cancel() {
		s.logger.Info("cancelling scan")
	}
}

// Run performs a full pass. It supersedes a run already in progress and
// returns nil unless ctx ends before the pass does.
func (s *Scanner[T]) Run(ctx context.Context) error {
	sess := s.coord.Start()
	logger := s.logger.With("session", sess.ID)
	metrics.SetScanRunning(s.job, true)

	s.mu.Lock()
	s.status.Progress, s.status.Total = 0, 0
	s.status.SessionID = sess.ID
	s.status.StartedAt = sess.StartedAt
	s.status.CurrentSource = ""
	s.status.Sources = []string{}
	s.base, s.done = 0, 0
	s.mu.Unlock()

	s.publish(ctx, &events.ScanStarted{
		BaseEvent: events.NewBaseEvent(events.EventScanStarted, events.EntityScan, 0),
		Job:       s.job,
		SessionID: sess.ID,
	})
	logger.Info("scan started", "source", s.source.Name())

	var processed, failed atomic.Int64
	err := s.run(ctx, sess, logger, &processed, &failed)

	result := "completed"
	switch {
	case errors.Is(err, ErrSessionSuperseded):
		result = "superseded"
		logger.Info("scan superseded by a newer run")
	case errors.Is(err, ErrAborted):
		result = "cancelled"
		logger.Info("scan cancelled")
	case err != nil:
		result = "failed"
		logger.Error("scan failed", "error", err)
	}

	elapsed := time.Since(sess.StartedAt)
	if s.coord.End(sess) {
		metrics.SetScanRunning(s.job, false)
		s.mu.Lock()
		s.status.CurrentSource = ""
		s.status.LastResult = result
		s.status.LastFinished = time.Now()
		s.mu.Unlock()
	}
	metrics.RecordScan(s.job, result, elapsed)

	completed := &events.ScanCompleted{
		BaseEvent: events.NewBaseEvent(events.EventScanCompleted, events.EntityScan, 0),
		Job:       s.job,
		SessionID: sess.ID,
		Result:    result,
		Processed: int(processed.Load()),
		Failed:    int(failed.Load()),
		Duration:  elapsed,
	}
	if err != nil && result == "failed" {
		completed.Error = err.Error()
	}
	s.publish(context.WithoutCancel(ctx), completed)
	logger.Info("scan finished", "result", result, "processed", processed.Load(), "failed", failed.Load(), "duration", elapsed.Round(time.Millisecond))

	if ctxErr := ctx.Err(); ctxErr != nil && result == "failed" {
		return ctxErr
	}
	return nil
}

func (s *Scanner[T]) run(ctx context.Context, sess *SyncSession, logger *slog.Logger, processed, failed *atomic.Int64) error {
	targets, err := s.source.Targets(ctx)
	if err != nil {
		return fmt.Errorf("%s unavailable: %w", s.source.Name(), err)
	}

	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	s.update(sess, func() { s.status.Sources = names })

	if len(targets) == 0 {
		logger.Info("nothing to scan", "source", s.source.Name())
		return nil
	}

	for _, target := range targets {
		if err := sess.Check(); err != nil {
			return err
		}
		s.update(sess, func() { s.status.CurrentSource = target.Name })

		tlog := logger.With("target", target.Name)
		tlog.Info("scanning target")

		process := s.processor(sess, target, tlog, processed, failed)
		if err := s.walk(ctx, sess, target, process); err != nil {
			if errors.Is(err, ErrSessionSuperseded) || errors.Is(err, ErrAborted) || ctx.Err() != nil {
				return err
			}
			tlog.Error("target unavailable, skipping", "error", err)
			continue
		}

		if f, ok := s.source.(Finisher); ok {
			if err := f.Finish(ctx, target); err != nil {
				tlog.Warn("failed to record scan state", "error", err)
			}
		}

		s.update(sess, func() {
			s.base += s.done
			s.done = 0
		})
	}
	return nil
}

func (s *Scanner[T]) walk(ctx context.Context, sess *SyncSession, target Target, process func(context.Context, T)) error {
	if pager, ok := s.source.(Pager[T]); ok {
		fetch := func(ctx context.Context, offset, size int) (Page[T], error) {
			return pager.Page(ctx, target, offset, size)
		}
		var seen int
		return RunPages(ctx, sess, s.cfg, fetch, func(done, total int) {
			s.update(sess, func() {
				if total > 0 && total != seen {
					s.status.Total += total - seen
					seen = total
				}
				s.done = done
				s.status.Progress = s.base + done
			})
		}, process)
	}

	items, err := s.source.Items(ctx, target)
	if err != nil {
		return err
	}
	s.update(sess, func() { s.status.Total += len(items) })

	return RunBundles(ctx, sess, items, s.cfg, func(done int) {
		s.update(sess, func() {
			s.done = done
			s.status.Progress = s.base + done
		})
	}, process)
}

// update mutates the status only while sess is the current session, so a
// superseded run can't overwrite its successor's progress.
func (s *Scanner[T]) update(sess *SyncSession, fn func()) {
	if s.coord.Current() != sess {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// processor wraps Source.Process with the session checkpoint, panic
// recovery, logging and metrics.
func (s *Scanner[T]) processor(sess *SyncSession, target Target, logger *slog.Logger, processed, failed *atomic.Int64) func(context.Context, T) {
	return func(ctx context.Context, item T) {
		ctx = reconcile.WithCheckpoint(ctx, sess.Check)

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return s.source.Process(ctx, target, item)
		}()

		switch {
		case err == nil:
			processed.Add(1)
		case errors.Is(err, ErrSessionSuperseded), errors.Is(err, ErrAborted), errors.Is(err, context.Canceled):
			logger.Debug("item skipped, run stopping", "error", err)
			return
		default:
			failed.Add(1)
			logger.Warn("failed to process item", "error", err)
		}
		metrics.RecordItem(s.job, err)
	}
}

func (s *Scanner[T]) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}
