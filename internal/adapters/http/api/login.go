package api

import (
	"context"
	"net/http"

	"github.com/okian/gachastat/internal/domain/model"
)

// LoginDependencies performs the token exchange.
type LoginDependencies interface {
	Login(ctx context.Context, cred model.Credential) error
}

// LoginHandler handles login requests.
type LoginHandler struct {
	deps LoginDependencies
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(deps LoginDependencies) *LoginHandler {
	return &LoginHandler{deps: deps}
}

// HandleLogin handles POST /login requests.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var cred model.Credential
	if err := decodeBody(w, r, op, &cred); err != nil {
		writeError(w, err)
		return
	}
	if err := h.deps.Login(r.Context(), cred); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
