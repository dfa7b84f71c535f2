package api

import (
	"context"
	"net/http"

	"github.com/okian/gachastat/internal/domain/model"
)

// HistoryDependencies synchronizes and reads stored draw history.
type HistoryDependencies interface {
	FetchAndPersistAllHistory(ctx context.Context) ([]model.DrawEvent, error)
	HistoryForPool(ctx context.Context, pool string) ([]model.DrawEvent, error)
}

// HistoryHandler handles history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleSync handles POST /history/sync requests.
func (h *HistoryHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	events, err := h.deps.FetchAndPersistAllHistory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleHistory handles GET /history?pool=P requests. Without pool the
// whole history is returned.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	events, err := h.deps.HistoryForPool(r.Context(), r.URL.Query().Get("pool"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
