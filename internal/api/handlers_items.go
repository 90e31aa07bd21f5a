package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/remindly/remindly-server/internal/api/respond"
	"github.com/remindly/remindly-server/internal/api/validate"
	"github.com/remindly/remindly-server/internal/auth"
	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/schedule"
	"github.com/remindly/remindly-server/internal/services"
)

type ItemHandler struct {
	svc *services.ItemService
}

func NewItemHandler(svc *services.ItemService) *ItemHandler { return &ItemHandler{svc: svc} }

func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "missing identity")
	}
	return username, ok
}

// List handles GET /api/items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	items, err := h.svc.List(r.Context(), username)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	if items == nil {
		items = []model.ReminderItem{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Replace handles PUT /api/items: the whole collection swaps at once.
func (h *ItemHandler) Replace(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	var in struct {
		Items []model.ReminderItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	for i := range in.Items {
		if err := validate.Item(&in.Items[i]); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if err := h.svc.Replace(r.Context(), username, in.Items); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"count": len(in.Items)})
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	var item model.ReminderItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Item(&item); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	created, err := h.svc.Create(r.Context(), username, item)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	var item model.ReminderItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Item(&item); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	updated, err := h.svc.Update(r.Context(), username, id, item)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), username, mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /api/items/{id}/complete. Completing a recurring item
// also returns the freshly minted successor.
func (h *ItemHandler) Complete(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	item, successor, err := h.svc.ToggleComplete(r.Context(), username, mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out := map[string]interface{}{"item": item}
	if successor != nil {
		out["successor"] = successor
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Duplicate handles POST /api/items/{id}/duplicate.
func (h *ItemHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	dup, err := h.svc.Duplicate(r.Context(), username, mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, dup)
}

// Snooze handles POST /api/items/{id}/snooze.
func (h *ItemHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	var in struct {
		Mode schedule.SnoozeMode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	item, err := h.svc.Snooze(r.Context(), username, mux.Vars(r)["id"], in.Mode)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, item)
}

// Buckets handles GET /api/items/buckets.
func (h *ItemHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	buckets, err := h.svc.Buckets(r.Context(), username)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, buckets)
}

// Loan handles GET /api/items/{id}/loan.
func (h *ItemHandler) Loan(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	insight, err := h.svc.Loan(r.Context(), username, mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, insight)
}
