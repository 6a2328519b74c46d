// Package jobs schedules the sync jobs and exposes manual run and cancel.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vmunix/arrsync/internal/scanner"
)

// ErrUnknownJob is returned for a job id that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Job is a runnable sync job. *scanner.Scanner satisfies it.
type Job interface {
	Job() string
	Run(ctx context.Context) error
	Status() scanner.Status
	Cancel()
}

// Definition registers a job with its schedule.
type Definition struct {
	Job      Job
	Name     string
	Schedule string // cron expression with a seconds field
	Enabled  bool
}

// Info describes a registered job.
type Info struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Schedule string         `json:"schedule"`
	Enabled  bool           `json:"enabled"`
	NextRun  time.Time      `json:"next_run,omitzero"`
	Status   scanner.Status `json:"status"`
}

type entry struct {
	def     Definition
	entryID cron.EntryID
}

// Scheduler triggers jobs on their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	jobs    map[string]*entry
	baseCtx context.Context
	wg      sync.WaitGroup
}

// New creates a scheduler. Jobs are not triggered until Start.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		jobs:    make(map[string]*entry),
		baseCtx: context.Background(),
	}
}

// Register adds a job. Disabled jobs can still be run manually.
func (s *Scheduler) Register(def Definition) error {
	id := def.Job.Job()
	if def.Name == "" {
		def.Name = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; ok {
		return fmt.Errorf("register job %s: already registered", id)
	}

	e := &entry{def: def}
	if def.Enabled {
		entryID, err := s.cron.AddFunc(def.Schedule, func() { s.scheduled(id) })
		if err != nil {
			return fmt.Errorf("register job %s: %w", id, err)
		}
		e.entryID = entryID
	}
	s.jobs[id] = e
	return nil
}

// Start begins triggering scheduled jobs. Runs use ctx and stop when it ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop halts scheduling, cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	for _, e := range s.jobs {
		if e.def.Job.Status().Running {
			e.def.Job.Cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// Run starts a job in the background. A run already in progress is
// superseded.
func (s *Scheduler) Run(id string) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.logger.Info("job triggered", "job", id, "trigger", "manual")
	s.launch(e.def.Job)
	return nil
}

// Cancel stops a running job.
func (s *Scheduler) Cancel(id string) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.def.Job.Cancel()
	return nil
}

// Get describes one job.
func (s *Scheduler) Get(id string) (Info, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Info{}, err
	}
	return s.info(e), nil
}

// List describes every registered job, ordered by id.
func (s *Scheduler) List() []Info {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.jobs))
	for _, e := range s.jobs {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	infos := make([]Info, len(entries))
	for i, e := range entries {
		infos[i] = s.info(e)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (s *Scheduler) info(e *entry) Info {
	info := Info{
		ID:       e.def.Job.Job(),
		Name:     e.def.Name,
		Schedule: e.def.Schedule,
		Enabled:  e.def.Enabled,
		Status:   e.def.Job.Status(),
	}
	if e.entryID != 0 {
		info.NextRun = s.cron.Entry(e.entryID).Next
	}
	return info
}

func (s *Scheduler) lookup(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	return e, nil
}

// scheduled is the cron callback. A tick that lands while the job is still
// running is skipped rather than superseding it.
func (s *Scheduler) scheduled(id string) {
	e, err := s.lookup(id)
	if err != nil {
		return
	}
	if e.def.Job.Status().Running {
		s.logger.Debug("job still running, skipping tick", "job", id)
		return
	}
	s.logger.Info("job triggered", "job", id, "trigger", "schedule")
	s.launch(e.def.Job)
}

func (s *Scheduler) launch(job Job) {
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("job failed", "job", job.Job(), "error", err)
		}
	}()
}
