package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/arrsync/internal/events"
)

// ActivityHandler writes a readable activity log of what the sync jobs
// changed: titles and seasons becoming available and scans that failed
// or skipped items.
type ActivityHandler struct {
	*BaseHandler
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(bus *events.Bus, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{BaseHandler: NewBaseHandler(bus, logger)}
}

// Name returns the handler name.
func (h *ActivityHandler) Name() string {
	return "activity"
}

// Start begins processing events.
func (h *ActivityHandler) Start(ctx context.Context) error {
	titles := h.Bus().Subscribe(events.EventTitleAvailable, 100)
	seasons := h.Bus().Subscribe(events.EventSeasonsAvailable, 100)
	scans := h.Bus().Subscribe(events.EventScanCompleted, 20)

	for {
		select {
		case e, ok := <-titles:
			if !ok {
				return nil // Channel closed
			}
			h.handleTitleAvailable(e.(*events.TitleAvailable))
		case e, ok := <-seasons:
			if !ok {
				return nil
			}
			h.handleSeasonsAvailable(e.(*events.SeasonsAvailable))
		case e, ok := <-scans:
			if !ok {
				return nil
			}
			h.handleScanCompleted(e.(*events.ScanCompleted))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *ActivityHandler) handleTitleAvailable(e *events.TitleAvailable) {
	h.Logger().Info("title now available",
		"title", e.Title,
		"kind", e.Kind,
		"tmdb_id", e.TMDBID,
		"dimension", e.Dimension,
		"source", e.Source)
}

func (h *ActivityHandler) handleSeasonsAvailable(e *events.SeasonsAvailable) {
	h.Logger().Info("seasons now available",
		"title", e.Title,
		"tmdb_id", e.TMDBID,
		"dimension", e.Dimension,
		"seasons", e.Seasons)
}

func (h *ActivityHandler) handleScanCompleted(e *events.ScanCompleted) {
	switch {
	case e.Result == "failed":
		h.Logger().Warn("scan failed", "job", e.Job, "session", e.SessionID, "error", e.Error)
	case e.Failed > 0:
		h.Logger().Warn("scan skipped items",
			"job", e.Job,
			"session", e.SessionID,
			"processed", e.Processed,
			"failed", e.Failed)
	}
}
