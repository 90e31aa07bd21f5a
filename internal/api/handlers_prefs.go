package api

import (
	"encoding/json"
	"net/http"

	"github.com/remindly/remindly-server/internal/api/respond"
	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/services"
)

type PrefsHandler struct {
	svc *services.AuthService
}

func NewPrefsHandler(svc *services.AuthService) *PrefsHandler { return &PrefsHandler{svc: svc} }

// Get handles GET /api/prefs.
func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	prefs, err := h.svc.Preferences(r.Context(), username)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, prefs)
}

// Put handles PUT /api/prefs.
func (h *PrefsHandler) Put(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	var prefs model.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := h.svc.SavePreferences(r.Context(), username, prefs); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	prefs.Username = username
	respond.WriteJSON(w, http.StatusOK, prefs)
}
