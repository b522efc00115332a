package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	apperrors "github.com/gpse/sesam-client/internal/errors"
	"github.com/gpse/sesam-client/internal/ports"
	"golang.org/x/sync/singleflight"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store       ports.KeyValueStore
	Credentials ports.CredentialSink
	Profiles    *ProfileStore
	Fetcher     ports.ProfileFetcher
	Reloader    ports.Reloader
	Logger      *slog.Logger
}

// SessionService tracks whether the client is authenticated and owns the persisted bearer token.
//
// State machine: unknown -> authenticated | anonymous via LoadPreviousSession;
// authenticated -> anonymous via Logout; anonymous -> authenticated via Authenticate.
type SessionService struct {
	store    ports.KeyValueStore
	creds    ports.CredentialSink
	profiles *ProfileStore
	fetcher  ports.ProfileFetcher
	reloader ports.Reloader
	logger   *slog.Logger

	mu    sync.RWMutex
	state domainauth.AuthState

	restore        singleflight.Group
	restoreWaiters atomic.Int64
}

// NewSessionService constructs a SessionService in the unknown state.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	profiles := opts.Profiles
	if profiles == nil {
		profiles = NewProfileStore()
	}
	reloader := opts.Reloader
	if reloader == nil {
		reloader = ports.ReloaderFunc(func(context.Context) {})
	}
	return &SessionService{
		store:    opts.Store,
		creds:    opts.Credentials,
		profiles: profiles,
		fetcher:  opts.Fetcher,
		reloader: reloader,
		logger:   logger,
		state:    domainauth.StateUnknown,
	}
}

// State returns the current authentication state.
func (s *SessionService) State() domainauth.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Profiles returns the profile store fed by this session.
func (s *SessionService) Profiles() *ProfileStore {
	return s.profiles
}

func (s *SessionService) setState(state domainauth.AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Authenticate persists token and arms it for outbound calls. An empty token logs out.
func (s *SessionService) Authenticate(ctx context.Context, token string) error {
	if token == "" {
		return s.Logout(ctx)
	}

	if err := s.store.Set(ctx, domainauth.TokenKey, token); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "persist token")
	}
	s.creds.SetToken(token)
	s.setState(domainauth.StateAuthenticated)
	return nil
}

// Logout forgets the session: in-memory state is cleared first, then the persisted token.
func (s *SessionService) Logout(ctx context.Context) error {
	s.setState(domainauth.StateAnonymous)
	s.profiles.Reset()
	s.creds.Clear()

	if err := s.store.Delete(ctx, domainauth.TokenKey); err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "erase token")
	}
	return nil
}

// LoadPreviousSession rebuilds the session from the persisted token.
//
// Without a persisted token the session becomes anonymous and (nil, nil) is returned
// without any network call. When the backend rejects the token the session is logged out,
// the reloader is invoked, and an error matching apperrors.ErrSessionRestore is returned.
// Concurrent callers share a single in-flight restore. The restore is detached from
// the caller's cancellation: a caller whose ctx ends gets ctx.Err() while the restore
// completes for the others, bounded by the HTTP client timeout.
func (s *SessionService) LoadPreviousSession(ctx context.Context) (*domainauth.Profile, error) {
	s.restoreWaiters.Add(1)
	defer s.restoreWaiters.Add(-1)

	ch := s.restore.DoChan("restore", func() (any, error) {
		return s.loadPreviousSession(context.WithoutCancel(ctx))
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Shared {
		s.logger.DebugContext(ctx, "joined in-flight session restore", "waiters", s.restoreWaiters.Load())
	}
	if res.Err != nil {
		return nil, res.Err
	}
	p, _ := res.Val.(*domainauth.Profile)
	if p == nil {
		return nil, nil
	}
	c := p.Clone()
	return &c, nil
}

func (s *SessionService) loadPreviousSession(ctx context.Context) (*domainauth.Profile, error) {
	token, err := s.store.Get(ctx, domainauth.TokenKey)
	if errors.Is(err, ports.ErrKeyNotFound) || (err == nil && token == "") {
		s.setState(domainauth.StateAnonymous)
		return nil, nil
	}
	if err != nil {
		return nil, s.failRestore(ctx, apperrors.Wrap(err, apperrors.ErrCodeStorage, "read persisted token"))
	}

	s.creds.SetToken(token)
	profile, err := s.fetcher.Profile(ctx)
	if err != nil {
		return nil, s.failRestore(ctx, err)
	}

	s.profiles.Set(&profile)
	s.setState(domainauth.StateAuthenticated)
	s.logger.DebugContext(ctx, "session restored", "username", profile.Username)
	return &profile, nil
}

// failRestore performs the hard reset that follows a rejected token.
func (s *SessionService) failRestore(ctx context.Context, cause error) error {
	if logoutErr := s.Logout(ctx); logoutErr != nil {
		cause = errors.Join(cause, logoutErr)
	}
	s.logger.WarnContext(ctx, "session restore failed, resetting client state", "error", cause)
	s.reloader.Reload(ctx)
	return apperrors.Wrap(cause, apperrors.ErrCodeSessionRestore, "failed to restore session")
}
