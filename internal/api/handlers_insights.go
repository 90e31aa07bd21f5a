package api

import (
	"net/http"

	"github.com/remindly/remindly-server/internal/api/respond"
	"github.com/remindly/remindly-server/internal/services"
)

type InsightHandler struct {
	svc *services.InsightService
}

func NewInsightHandler(svc *services.InsightService) *InsightHandler {
	return &InsightHandler{svc: svc}
}

// Dashboard handles GET /api/insights/dashboard.
func (h *InsightHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Dashboard(r.Context(), username)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}

// Lifelog handles GET /api/insights/lifelog.
func (h *InsightHandler) Lifelog(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	log, err := h.svc.Lifelog(r.Context(), username)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, log)
}
