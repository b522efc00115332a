// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"sync"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/gpse/sesam-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.KeyValueStore  = (*MemoryStore)(nil)
	_ ports.CredentialSink = (*RecordingCredentials)(nil)
	_ ports.Authenticator  = (*MockAuthenticator)(nil)
	_ ports.ProfileFetcher = (*MockProfileFetcher)(nil)
	_ ports.Reloader       = (*CountingReloader)(nil)
)

// MemoryStore is an in-memory KeyValueStore for unit tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	// GetErr, SetErr and DeleteErr force failures when non-nil.
	GetErr    error
	SetErr    error
	DeleteErr error
}

// NewMemoryStore creates an empty in-memory store, optionally seeded with key/value pairs.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.values, key)
	return nil
}

// Lookup returns the raw value for key without going through the port.
func (m *MemoryStore) Lookup(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// RecordingCredentials remembers the last token armed for outbound calls.
type RecordingCredentials struct {
	mu    sync.Mutex
	token string
	set   bool
}

func (r *RecordingCredentials) SetToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
	r.set = true
}

func (r *RecordingCredentials) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	r.set = false
}

// Token returns the armed token and whether one is present.
func (r *RecordingCredentials) Token() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token, r.set
}

// MockAuthenticator simulates the login endpoint.
type MockAuthenticator struct {
	LoginFunc func(ctx context.Context, email, password string) (ports.LoginResult, error)
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return ports.LoginResult{
		Token: "Bearer mock-token",
		Profile: domainauth.Profile{
			Forename: "Mock",
			Surname:  "User",
			Email:    email,
			Username: email,
			Roles:    domainauth.NewRoleSet(domainauth.RoleEditor),
		},
	}, nil
}

// MockProfileFetcher simulates the profile endpoint and counts calls.
type MockProfileFetcher struct {
	ProfileFunc func(ctx context.Context) (domainauth.Profile, error)

	mu    sync.Mutex
	calls int
}

func (m *MockProfileFetcher) Profile(ctx context.Context) (domainauth.Profile, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return domainauth.Profile{
		Forename: "Mock",
		Surname:  "User",
		Email:    "mock.user@example.com",
		Username: "mock.user@example.com",
		Roles:    domainauth.NewRoleSet(domainauth.RoleAdmin),
	}, nil
}

// Calls returns how many times Profile was invoked.
func (m *MockProfileFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// CountingReloader counts reload requests.
type CountingReloader struct {
	mu    sync.Mutex
	count int
}

func (r *CountingReloader) Reload(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

// Count returns the number of reloads triggered.
func (r *CountingReloader) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
