// Package server runs the daemon's background components.
package server

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Scheduler is started with the runner and stopped when it ends.
type Scheduler interface {
	Start(ctx context.Context)
	Stop()
}

// Task is periodic maintenance work, such as pruning caches.
type Task struct {
	Name     string
	Interval time.Duration
	// RunAtStart runs the task once before the first tick.
	RunAtStart bool
	Fn         func(ctx context.Context) error
}

// Handler consumes bus events until its context ends.
type Handler interface {
	Name() string
	Start(ctx context.Context) error
}

// Runner manages the scheduler, event handlers and maintenance tasks.
type Runner struct {
	scheduler Scheduler
	tasks     []Task
	handlers  []Handler
	logger    *slog.Logger
}

// NewRunner creates a new runner. scheduler may be nil.
func NewRunner(scheduler Scheduler, tasks []Task, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		scheduler: scheduler,
		tasks:     tasks,
		logger:    logger,
	}
}

// AddHandlers registers event handlers started by Run.
func (r *Runner) AddHandlers(hs ...Handler) {
	r.handlers = append(r.handlers, hs...)
}

// Run starts all background components.
// It blocks until the context is canceled, then stops the scheduler.
func (r *Runner) Run(ctx context.Context) error {
	if r.scheduler != nil {
		r.scheduler.Start(ctx)
		defer r.scheduler.Stop()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, task := range r.tasks {
		if task.Interval <= 0 {
			r.logger.Warn("task has no interval, not scheduling", "task", task.Name)
			continue
		}
		g.Go(func() error {
			r.loop(ctx, task)
			return nil
		})
	}

	for _, h := range r.handlers {
		g.Go(func() error {
			r.logger.Debug("handler started", "handler", h.Name())
			if err := h.Start(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("handler stopped", "handler", h.Name(), "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	return g.Wait()
}

func (r *Runner) loop(ctx context.Context, task Task) {
	log := r.logger.With("task", task.Name)
	if task.RunAtStart {
		r.runTask(ctx, task, log)
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runTask(ctx, task, log)
		}
	}
}

func (r *Runner) runTask(ctx context.Context, task Task, log *slog.Logger) {
	start := time.Now()
	if err := task.Fn(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error("maintenance task failed", "error", err)
		return
	}
	log.Debug("maintenance task finished", "duration", time.Since(start).Round(time.Millisecond))
}
