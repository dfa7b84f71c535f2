package testremote

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/pkg/logger"
)

// Remote status codes used by the official service.
const (
	statusBadCredential = 100
	codeTokenExpired    = 3000
	pageSize            = 10
)

// Server serves a fixed draw history behind the token and gacha endpoints.
type Server struct {
	cfg Config

	mu      sync.RWMutex
	history []model.DrawBatch // newest first

	logins  atomic.Int64
	fetches atomic.Int64
}

// NewServer creates a server over history, which must be newest first.
func NewServer(cfg Config, history []model.DrawBatch) *Server {
	h := make([]model.DrawBatch, len(history))
	copy(h, history)
	return &Server{cfg: cfg, history: h}
}

// Handler returns the HTTP handler exposing both endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+TokenPath, s.handleToken)
	mux.HandleFunc("GET "+GachaPath, s.handleGacha)
	return mux
}

// Prepend adds newer batches at the head of the history, as new pulls do.
func (s *Server) Prepend(batches ...model.DrawBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(append([]model.DrawBatch{}, batches...), s.history...)
}

// History returns a copy of the served history.
func (s *Server) History() []model.DrawBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.DrawBatch, len(s.history))
	copy(out, s.history)
	return out
}

// Logins reports the number of successful token exchanges.
func (s *Server) Logins() int { return int(s.logins.Load()) }

// Fetches reports the number of history pages served.
func (s *Server) Fetches() int { return int(s.fetches.Load()) }

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Phone != s.cfg.Phone || req.Password != s.cfg.Password {
		writeJSON(w, tokenResponse{Status: statusBadCredential, Msg: "wrong phone or password"})
		return
	}
	s.logins.Add(1)
	writeJSON(w, tokenResponse{Msg: "OK", Data: &tokenData{Token: s.cfg.Token}})
}

func (s *Server) handleGacha(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("token") != s.cfg.Token {
		writeJSON(w, gachaResponse{Code: codeTokenExpired, Msg: "login expired"})
		return
	}
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if s.cfg.Latency > 0 {
		select {
		case <-time.After(s.cfg.Latency):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.RLock()
	total := len(s.history)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	list := make([]model.DrawBatch, end-start)
	copy(list, s.history[start:end])
	s.mu.RUnlock()

	s.fetches.Add(1)
	if s.cfg.Verbose {
		logger.Get().Debug(r.Context(), "history page served",
			logger.Int("page", page),
			logger.Int("batches", len(list)))
	}
	writeJSON(w, gachaResponse{
		Data: &gachaData{List: list, Pagination: pagination{Current: page, Total: total}},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs the server on cfg.Addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	logger.Get().Info(ctx, "mock remote listening",
		logger.String("addr", s.cfg.Addr),
		logger.Int("batches", len(s.History())))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
