package v1

import (
	"net/http"
	"time"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(r, 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}

	events, total, err := s.deps.EventLog.Recent(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	resp := listEventsResponse{
		Items:  make([]EventResponse, len(events)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, e := range events {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
			Payload:    e.Payload,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
