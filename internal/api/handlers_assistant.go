package api

import (
	"encoding/json"
	"net/http"

	"github.com/remindly/remindly-server/internal/api/respond"
	"github.com/remindly/remindly-server/internal/api/validate"
	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/services"
)

type AssistantHandler struct {
	svc *services.AssistantService
}

func NewAssistantHandler(svc *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// Chat handles POST /api/assistant/chat. Provider failures surface as an
// apology in the reply body, never as an error status.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	var in struct {
		Query   string              `json:"query"`
		History []model.ChatMessage `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.NonEmpty("query", in.Query); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	reply := h.svc.Chat(r.Context(), username, in.Query, in.History)
	respond.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Summary handles POST /api/assistant/summary.
func (h *AssistantHandler) Summary(w http.ResponseWriter, r *http.Request) {
	username, ok := owner(w, r)
	if !ok {
		return
	}
	summary := h.svc.SmartSummary(r.Context(), username)
	respond.WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
