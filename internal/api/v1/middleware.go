package v1

import "net/http"

// requireEventLog wraps a handler and returns 503 if the event log is not configured.
func (s *Server) requireEventLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.EventLog == nil {
			writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
			return
		}
		next(w, r)
	}
}
