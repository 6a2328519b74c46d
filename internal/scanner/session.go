package scanner

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionSuperseded means a newer run of the same job has started.
	ErrSessionSuperseded = errors.New("sync session superseded")

	// ErrAborted means the run was cancelled.
	ErrAborted = errors.New("sync aborted")
)

// Coordinator owns the current session of one job. Starting a session
// invalidates every older one.
type Coordinator struct {
	mu      sync.Mutex
	current *SyncSession
	running bool
}

// SyncSession identifies one run of a job.
type SyncSession struct {
	ID        string
	StartedAt time.Time

	coord     *Coordinator
	cancelled bool // guarded by coord.mu
	done      chan struct{}
	closeOnce sync.Once
}

// Start issues a new session and makes it current.
func (c *Coordinator) Start() *SyncSession {
	s := &SyncSession{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		coord:     c,
		done:      make(chan struct{}),
	}

	c.mu.Lock()
	prev := c.current
	c.current = s
	c.running = true
	c.mu.Unlock()

	if prev != nil {
		prev.stop()
	}
	return s
}

// End clears the running flag if s is still the current session and
// reports whether it did.
func (c *Coordinator) End(s *SyncSession) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != s {
		return false
	}
	c.running = false
	return true
}

// Cancel aborts the current session. It reports whether a run was active.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	s := c.current
	wasRunning := c.running
	if s != nil {
		s.cancelled = true
	}
	c.running = false
	c.mu.Unlock()

	if s != nil {
		s.stop()
	}
	return wasRunning
}

// Running reports whether the current session is still in progress.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Current returns the latest session, or nil before the first run.
func (c *Coordinator) Current() *SyncSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Check returns ErrSessionSuperseded or ErrAborted when s should stop.
func (s *SyncSession) Check() error {
	s.coord.mu.Lock()
	defer s.coord.mu.Unlock()
	if s.coord.current != s {
		return ErrSessionSuperseded
	}
	if s.cancelled {
		return ErrAborted
	}
	return nil
}

// Done is closed once s has been superseded or cancelled.
func (s *SyncSession) Done() <-chan struct{} {
	return s.done
}

func (s *SyncSession) stop() {
	s.closeOnce.Do(func() { close(s.done) })
}
