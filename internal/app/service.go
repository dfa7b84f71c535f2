// Package service wires the draw-history components together and exposes
// the operations used by the HTTP API and the command line.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/gachastat/internal/adapters/remote"
	repository "github.com/okian/gachastat/internal/adapters/repository"
	"github.com/okian/gachastat/internal/apperr"
	"github.com/okian/gachastat/internal/domain/auth"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/internal/domain/stats"
	"github.com/okian/gachastat/internal/domain/types"
	"github.com/okian/gachastat/pkg/logger"
	"github.com/okian/gachastat/pkg/metrics"
)

const defaultQueueCapacity = 4

// Errors returned by the service itself.
var (
	ErrNotConfigured = errors.New("service component not configured")
	ErrNoCredential  = apperr.NewKind("service.login_saved", apperr.ErrUser)
	ErrPagination    = errors.New("remote pagination never reached the last page")
)

// Authenticator exchanges a credential for a session token.
type Authenticator interface {
	Login(ctx context.Context, cred model.Credential) (string, error)
}

// CredentialStore keeps the saved login credential.
type CredentialStore interface {
	Save(ctx context.Context, cred model.Credential) error
	Load(ctx context.Context) (*model.Credential, error)
}

// Service implements the API dependencies for gacha history.
type Service struct {
	store   repository.Store
	fetcher remote.Fetcher
	authn   Authenticator
	tokens  *auth.TokenSlot
	creds   CredentialStore

	// Configuration
	queueCapacity int
	dedupeSize    int
	statsOpts     []stats.Option

	// one ingestion run at a time
	ingestMu sync.Mutex

	mu      sync.RWMutex
	lastRun *types.RunReport

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithFetcher sets the paginated history source.
func WithFetcher(f remote.Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithAuthenticator sets the token exchange.
func WithAuthenticator(a Authenticator) Option {
	return func(s *Service) { s.authn = a }
}

// WithTokenSlot shares a token slot with the fetcher.
func WithTokenSlot(slot *auth.TokenSlot) Option {
	return func(s *Service) {
		if slot != nil {
			s.tokens = slot
		}
	}
}

// WithCredentialStore sets where credentials are saved.
func WithCredentialStore(c CredentialStore) Option {
	return func(s *Service) { s.creds = c }
}

// WithQueueCapacity sets how many fetched pages may wait for the writer.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueCapacity = n
		}
	}
}

// WithDedupeSize bounds how many batch timestamps a sync run remembers when
// counting duplicates. Zero keeps every timestamp.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.dedupeSize = n
		}
	}
}

// WithZeroPaddedMonths makes statistics use "2021-01" style month keys.
func WithZeroPaddedMonths(enabled bool) Option {
	return func(s *Service) {
		s.statsOpts = append(s.statsOpts, stats.WithMonthPadding(enabled))
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{
		tokens:        auth.NewTokenSlot(),
		queueCapacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Tokens returns the slot holding the session token.
func (s *Service) Tokens() *auth.TokenSlot { return s.tokens }

// SaveCredentials stores cred for later logins.
func (s *Service) SaveCredentials(ctx context.Context, cred model.Credential) error {
	if s.creds == nil {
		return ErrNotConfigured
	}
	return s.creds.Save(ctx, cred)
}

// LoadCredentials returns the saved credential, or nil.
func (s *Service) LoadCredentials(ctx context.Context) (*model.Credential, error) {
	if s.creds == nil {
		return nil, ErrNotConfigured
	}
	return s.creds.Load(ctx)
}

// Login exchanges cred for a token and keeps it for later fetches.
func (s *Service) Login(ctx context.Context, cred model.Credential) error {
	if s.authn == nil {
		return ErrNotConfigured
	}
	token, err := s.authn.Login(ctx, cred)
	if err != nil {
		metrics.RecordError("service", apperr.KindName(err))
		return err
	}
	s.tokens.SetToken(token)
	s.logger.Info(ctx, "logged in")
	return nil
}

// LoginWithSaved logs in with the saved credential.
func (s *Service) LoginWithSaved(ctx context.Context) error {
	cred, err := s.LoadCredentials(ctx)
	if err != nil {
		return err
	}
	if cred == nil {
		return ErrNoCredential
	}
	return s.Login(ctx, *cred)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) (types.ServiceStats, error) {
	_, loggedIn := s.tokens.CurrentToken()
	st := types.ServiceStats{
		LoggedIn:      loggedIn,
		QueueCapacity: s.queueCapacity,
	}

	s.mu.RLock()
	if s.lastRun != nil {
		run := *s.lastRun
		st.LastRun = &run
	}
	s.mu.RUnlock()

	if s.store == nil {
		return st, nil
	}
	if err := s.store.Init(ctx); err != nil {
		return st, err
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		return st, err
	}
	st.StoredBatches = n
	return st, nil
}

// Close releases the record store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
