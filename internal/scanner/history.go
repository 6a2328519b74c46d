package scanner

import (
	"github.com/vmunix/arrsync/internal/events"
)

// LastRuns picks the newest scan.completed event per job from a slice of
// persisted events. Payloads that fail to decode are skipped.
func LastRuns(raw []events.RawEvent, reg *events.Registry) map[string]*events.ScanCompleted {
	last := make(map[string]*events.ScanCompleted)
	for _, r := range raw {
		if r.EventType != events.EventScanCompleted {
			continue
		}
		e, err := reg.Unmarshal(r)
		if err != nil {
			continue
		}
		done, ok := e.(*events.ScanCompleted)
		if !ok || done.Job == "" {
			continue
		}
		if prev, seen := last[done.Job]; seen && !done.OccurredAt().After(prev.OccurredAt()) {
			continue
		}
		last[done.Job] = done
	}
	return last
}

// Restore seeds the last-run fields from a persisted completion event, so
// status survives a restart. It does nothing once the scanner has run.
func (s *Scanner[T]) Restore(done *events.ScanCompleted) {
	if done == nil || done.Job != s.job {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.LastFinished.IsZero() || s.status.SessionID != "" {
		return
	}
	s.status.LastResult = done.Result
	s.status.LastFinished = done.OccurredAt()
}
