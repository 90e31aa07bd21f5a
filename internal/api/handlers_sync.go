package api

import (
	"net/http"

	"github.com/remindly/remindly-server/internal/api/respond"
	"github.com/remindly/remindly-server/internal/syncer"
)

// SyncHandler exposes the mirror worker's status and an explicit flush.
// The worker is nil when no sheet URL is configured.
type SyncHandler struct {
	worker *syncer.Worker
}

func NewSyncHandler(worker *syncer.Worker) *SyncHandler { return &SyncHandler{worker: worker} }

// Status handles GET /api/sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	if h.worker == nil {
		respond.WriteJSON(w, http.StatusOK, syncer.Status{State: syncer.StateIdle})
		return
	}
	respond.WriteJSON(w, http.StatusOK, h.worker.Status(username))
}

// Flush handles POST /api/sync/flush: a synchronous push of the current
// collection to the sheet.
func (h *SyncHandler) Flush(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	if h.worker == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "remote sync is not configured")
		return
	}
	if err := h.worker.Flush(r.Context(), username); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, h.worker.Status(username))
}
