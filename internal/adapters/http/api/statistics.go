package api

import (
	"context"
	"net/http"

	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/internal/domain/stats"
	"github.com/okian/gachastat/internal/domain/types"
)

// StatisticsDependencies aggregates draw events.
type StatisticsDependencies interface {
	ComputeStatistics(ctx context.Context, events []model.DrawEvent, pool *string) (stats.Statistics, error)
	StoredStatistics(ctx context.Context, pool *string) (stats.Statistics, error)
}

// StatisticsHandler handles statistics requests.
type StatisticsHandler struct {
	deps StatisticsDependencies
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(deps StatisticsDependencies) *StatisticsHandler {
	return &StatisticsHandler{deps: deps}
}

// HandleStatistics serves POST /statistics over the events in the body and
// GET /statistics?pool=P over the stored history.
func (h *StatisticsHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	const op = "api.statistics"

	var (
		res stats.Statistics
		err error
	)
	switch r.Method {
	case http.MethodPost:
		var req types.StatisticsRequest
		if err := decodeBody(w, r, op, &req); err != nil {
			writeError(w, err)
			return
		}
		res, err = h.deps.ComputeStatistics(r.Context(), req.Gacha, req.Pool)
	case http.MethodGet:
		var pool *string
		if q := r.URL.Query(); q.Has("pool") {
			p := q.Get("pool")
			pool = &p
		}
		res, err = h.deps.StoredStatistics(r.Context(), pool)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
