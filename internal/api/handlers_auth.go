package api

import (
	"encoding/json"
	"net/http"

	"github.com/remindly/remindly-server/internal/api/respond"
	"github.com/remindly/remindly-server/internal/api/validate"
	"github.com/remindly/remindly-server/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Username(in.Username); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("password", in.Password); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	res, err := h.svc.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out := map[string]interface{}{
		"token":    res.Token,
		"username": res.Username,
	}
	if res.APIKey != nil {
		out["apiKey"] = *res.APIKey
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Username(in.Username); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("password", in.Password); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.svc.Register(r.Context(), in.Username, in.Password)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, user)
}
