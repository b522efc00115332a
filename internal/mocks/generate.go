// Package mocks provides gomock implementations of the session and auth ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the interfaces in internal/ports.
// Hand-written, stateful doubles live in the auth subpackage.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockKeyValueStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "token").Return("", ports.ErrKeyNotFound)
package mocks

// Generate mock for KeyValueStore interface from internal/ports package.
// This creates MockKeyValueStore with methods for all KeyValueStore interface methods:
// Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=key_value_store_mock.go github.com/gpse/sesam-client/internal/ports KeyValueStore

// Generate mock for ProfileFetcher interface from internal/ports package.
// This creates MockProfileFetcher with methods for all ProfileFetcher interface methods:
// Profile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_fetcher_mock.go github.com/gpse/sesam-client/internal/ports ProfileFetcher

// Generate mock for Authenticator interface from internal/ports package.
// This creates MockAuthenticator with methods for all Authenticator interface methods:
// Login
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authenticator_mock.go github.com/gpse/sesam-client/internal/ports Authenticator
