// Package ports defines interfaces (hexagonal ports) for session and auth behavior.
// Implementations live in internal/adapters and internal/api; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore persists small pieces of client state across process restarts
// (the bearer token and UI preferences).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CredentialSink receives the bearer token used for outbound API calls.
type CredentialSink interface {
	SetToken(token string)
	Clear()
}

// LoginResult carries the bearer token and profile returned by a successful login.
type LoginResult struct {
	Token   string
	Profile domainauth.Profile
}

// Authenticator exchanges user credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// ProfileFetcher loads the profile of the user owning the current bearer token.
type ProfileFetcher interface {
	Profile(ctx context.Context) (domainauth.Profile, error)
}

// PasswordResetter drives the password reset flow.
type PasswordResetter interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, password string) (bool, error)
}

// RoleMapper maps backend role identifiers to application roles.
type RoleMapper interface {
	Map(roles []string) domainauth.RoleSet
}

// Reloader tears down in-memory session state after an unrecoverable restore failure.
type Reloader interface {
	Reload(ctx context.Context)
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context)

// Reload calls f(ctx).
func (f ReloaderFunc) Reload(ctx context.Context) { f(ctx) }

// StatusCoder is implemented by errors that carry the HTTP status of a failed call.
type StatusCoder interface {
	HTTPStatus() int
}
