package api

import (
	"context"
	"net/http"

	"github.com/okian/gachastat/internal/domain/model"
)

// CredentialDependencies stores and returns the saved login credential.
type CredentialDependencies interface {
	SaveCredentials(ctx context.Context, cred model.Credential) error
	LoadCredentials(ctx context.Context) (*model.Credential, error)
}

// CredentialsHandler handles credential requests.
type CredentialsHandler struct {
	deps CredentialDependencies
}

// NewCredentialsHandler creates a new credentials handler.
func NewCredentialsHandler(deps CredentialDependencies) *CredentialsHandler {
	return &CredentialsHandler{deps: deps}
}

// HandleCredentials handles GET and POST /credentials. GET answers null when
// nothing is saved.
func (h *CredentialsHandler) HandleCredentials(w http.ResponseWriter, r *http.Request) {
	const op = "api.credentials"
	switch r.Method {
	case http.MethodGet:
		cred, err := h.deps.LoadCredentials(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cred)
	case http.MethodPost:
		var cred model.Credential
		if err := decodeBody(w, r, op, &cred); err != nil {
			writeError(w, err)
			return
		}
		if err := h.deps.SaveCredentials(r.Context(), cred); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
