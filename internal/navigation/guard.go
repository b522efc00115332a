// Package navigation decides whether a route transition may proceed for the current session.
package navigation

import (
	"context"
	"log/slog"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
)

// SessionResolver exposes the session state the guard needs.
type SessionResolver interface {
	State() domainauth.AuthState
	LoadPreviousSession(ctx context.Context) (*domainauth.Profile, error)
}

// ProfileReader exposes the current user's profile.
type ProfileReader interface {
	IsAdmin() bool
}

// Requirements are the access requirements a route declares.
type Requirements struct {
	RequiresAuth bool
	AdminOnly    bool
}

// GuardOptions groups dependencies for Guard.
type GuardOptions struct {
	Session  SessionResolver
	Profiles ProfileReader
	Logger   *slog.Logger
}

// Guard runs before every navigation. Decisions are computed fresh on each call.
type Guard struct {
	session  SessionResolver
	profiles ProfileReader
	logger   *slog.Logger
}

// NewGuard constructs a Guard.
func NewGuard(opts GuardOptions) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{session: opts.Session, profiles: opts.Profiles, logger: logger}
}

// Check returns the decision for a navigation to a route with the given requirements.
// Failures while resolving the session never propagate; they resolve to RedirectLogin.
func (g *Guard) Check(ctx context.Context, req Requirements) domainauth.Decision {
	if g.session.State() == domainauth.StateUnknown {
		if _, err := g.session.LoadPreviousSession(ctx); err != nil {
			g.logger.WarnContext(ctx, "session resolution failed during navigation", "error", err)
			return domainauth.RedirectLogin
		}
	}

	authenticated := g.session.State() == domainauth.StateAuthenticated
	if req.RequiresAuth && !authenticated {
		return domainauth.RedirectLogin
	}
	if req.AdminOnly && !g.profiles.IsAdmin() {
		return domainauth.RedirectHome
	}
	return domainauth.Allow
}
