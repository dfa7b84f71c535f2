// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/gachastat/internal/adapters/remote"
	"github.com/okian/gachastat/internal/apperr"
)

// maxBodyBytes bounds request bodies; statistics requests carry whole histories.
const maxBodyBytes = 16 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CredentialDependencies
	LoginDependencies
	HistoryDependencies
	StatisticsDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	credentialsHandler *CredentialsHandler
	loginHandler       *LoginHandler
	historyHandler     *HistoryHandler
	statisticsHandler  *StatisticsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		credentialsHandler: NewCredentialsHandler(deps),
		loginHandler:       NewLoginHandler(deps),
		historyHandler:     NewHistoryHandler(deps),
		statisticsHandler:  NewStatisticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/credentials", MetricsMiddleware(s.credentialsHandler.HandleCredentials, "credentials"))
	mux.HandleFunc("/login", MetricsMiddleware(s.loginHandler.HandleLogin, "login"))
	mux.HandleFunc("/history/sync", MetricsMiddleware(s.historyHandler.HandleSync, "history_sync"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleHistory, "history"))
	mux.HandleFunc("/statistics", MetricsMiddleware(s.statisticsHandler.HandleStatistics, "statistics"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: apperr.KindName(err), Message: msg})
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, remote.ErrNotAuthenticated), errors.Is(err, remote.ErrLoginFailed):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrUser):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
