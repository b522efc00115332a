package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	apperrors "github.com/gpse/sesam-client/internal/errors"
	"github.com/gpse/sesam-client/internal/mocks"
	mockauth "github.com/gpse/sesam-client/internal/mocks/auth"
	"github.com/gpse/sesam-client/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// statusError is a test helper carrying an HTTP status like the API client's errors do.
type statusError struct{ code int }

func (e statusError) Error() string {
	return fmt.Sprintf("login: %d %s", e.code, http.StatusText(e.code))
}

func (e statusError) HTTPStatus() int { return e.code }

type stubPasswords struct {
	requested []string
	resetOK   bool
	resetErr  error
}

func (s *stubPasswords) RequestPasswordReset(_ context.Context, email string) error {
	s.requested = append(s.requested, email)
	return nil
}

func (s *stubPasswords) ResetPassword(context.Context, string, string, string) (bool, error) {
	return s.resetOK, s.resetErr
}

type authFixture struct {
	store   *mockauth.MemoryStore
	creds   *mockauth.RecordingCredentials
	login   *mockauth.MockAuthenticator
	pw      *stubPasswords
	session *SessionService
	svc     *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		store: mockauth.NewMemoryStore(nil),
		creds: &mockauth.RecordingCredentials{},
		login: &mockauth.MockAuthenticator{},
		pw:    &stubPasswords{},
	}
	f.session = NewSessionService(SessionServiceOptions{
		Store:       f.store,
		Credentials: f.creds,
		Fetcher:     &mockauth.MockProfileFetcher{},
	})
	f.svc = NewAuthService(AuthServiceOptions{
		Authenticator: f.login,
		Passwords:     f.pw,
		Session:       f.session,
	})
	return f
}

func TestAuthService_RequestToken_Success(t *testing.T) {
	f := newAuthFixture()
	f.login.LoginFunc = func(_ context.Context, email, password string) (ports.LoginResult, error) {
		assert.Equal(t, "a@b.com", email)
		assert.Equal(t, "pw", password)
		return ports.LoginResult{
			Token: "Bearer xyz",
			Profile: domainauth.Profile{
				Email:    "a@b.com",
				Username: "a@b.com",
				Roles:    domainauth.NewRoleSet(domainauth.RoleAdmin),
			},
		}, nil
	}

	profile, err := f.svc.RequestToken(context.Background(), Credentials{Email: "a@b.com", Password: "pw"})

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.IsAdmin())
	assert.Equal(t, domainauth.StateAuthenticated, f.session.State())

	stored, ok := f.store.Lookup(domainauth.TokenKey)
	require.True(t, ok)
	assert.Equal(t, "Bearer xyz", stored)
	armed, _ := f.creds.Token()
	assert.Equal(t, "Bearer xyz", armed)

	current, ok := f.session.Profiles().Current()
	require.True(t, ok)
	assert.True(t, current.Roles.Contains(domainauth.RoleAdmin))
}

func TestAuthService_RequestToken_Failures(t *testing.T) {
	tests := []struct {
		name      string
		loginErr  error
		wantCheck func(error) bool
		sentinel  error
	}{
		{
			name:      "unauthorized means activation required",
			loginErr:  statusError{code: http.StatusUnauthorized},
			wantCheck: apperrors.IsActivationRequired,
			sentinel:  apperrors.ErrActivationRequired,
		},
		{
			name:      "wrapped unauthorized",
			loginErr:  fmt.Errorf("call backend: %w", statusError{code: http.StatusUnauthorized}),
			wantCheck: apperrors.IsActivationRequired,
			sentinel:  apperrors.ErrActivationRequired,
		},
		{
			name:      "forbidden means authentication error",
			loginErr:  statusError{code: http.StatusForbidden},
			wantCheck: apperrors.IsAuthentication,
			sentinel:  apperrors.ErrAuthentication,
		},
		{
			name:      "server error",
			loginErr:  statusError{code: http.StatusInternalServerError},
			wantCheck: apperrors.IsAuthentication,
			sentinel:  apperrors.ErrAuthentication,
		},
		{
			name:      "transport error",
			loginErr:  errors.New("dial tcp: connection refused"),
			wantCheck: apperrors.IsAuthentication,
			sentinel:  apperrors.ErrAuthentication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			require.NoError(t, f.session.Authenticate(context.Background(), "Bearer previous"))
			f.session.Profiles().Set(&domainauth.Profile{Username: "previous"})
			f.login.LoginFunc = func(context.Context, string, string) (ports.LoginResult, error) {
				return ports.LoginResult{}, tt.loginErr
			}

			profile, err := f.svc.RequestToken(context.Background(), Credentials{Email: "a@b.com", Password: "pw"})

			require.Error(t, err)
			assert.Nil(t, profile)
			assert.True(t, tt.wantCheck(err))
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, domainauth.StateAnonymous, f.session.State())
			_, ok := f.store.Lookup(domainauth.TokenKey)
			assert.False(t, ok)
			_, ok = f.session.Profiles().Current()
			assert.False(t, ok)
		})
	}
}

func TestAuthService_RequestToken_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	login := mocks.NewMockAuthenticator(ctrl)
	login.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	session := NewSessionService(SessionServiceOptions{
		Store:       mockauth.NewMemoryStore(nil),
		Credentials: &mockauth.RecordingCredentials{},
		Fetcher:     &mockauth.MockProfileFetcher{},
	})
	svc := NewAuthService(AuthServiceOptions{Authenticator: login, Session: session})

	_, err := svc.RequestToken(context.Background(), Credentials{Email: "  ", Password: "pw"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "email", apperrors.GetField(err))

	_, err = svc.RequestToken(context.Background(), Credentials{Email: "a@b.com"})
	require.Error(t, err)
	assert.Equal(t, "password", apperrors.GetField(err))

	assert.Equal(t, domainauth.StateUnknown, session.State())
}

func TestAuthService_RequestToken_PassesCredentialsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	login := mocks.NewMockAuthenticator(ctrl)
	store := mockauth.NewMemoryStore(nil)
	login.EXPECT().
		Login(gomock.Any(), "a@b.com", "pw").
		Return(ports.LoginResult{
			Token:   "Bearer abc",
			Profile: domainauth.Profile{Username: "a@b.com", Roles: domainauth.NewRoleSet(domainauth.RoleIssuer)},
		}, nil).
		Times(1)

	session := NewSessionService(SessionServiceOptions{
		Store:       store,
		Credentials: &mockauth.RecordingCredentials{},
		Fetcher:     &mockauth.MockProfileFetcher{},
	})
	svc := NewAuthService(AuthServiceOptions{Authenticator: login, Session: session})

	profile, err := svc.RequestToken(context.Background(), Credentials{Email: "a@b.com", Password: "pw"})

	require.NoError(t, err)
	assert.True(t, profile.Roles.Contains(domainauth.RoleIssuer))
	stored, ok := store.Lookup(domainauth.TokenKey)
	require.True(t, ok)
	assert.Equal(t, "Bearer abc", stored)
}

func TestAuthService_RequestToken_StorageFailure(t *testing.T) {
	f := newAuthFixture()
	f.store.SetErr = errors.New("disk full")

	_, err := f.svc.RequestToken(context.Background(), Credentials{Email: "a@b.com", Password: "pw"})

	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
	_, ok := f.session.Profiles().Current()
	assert.False(t, ok)
}

func TestAuthService_PasswordReset(t *testing.T) {
	f := newAuthFixture()

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "a@b.com"))
	assert.Equal(t, []string{"a@b.com"}, f.pw.requested)

	err := f.svc.RequestPasswordReset(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
	assert.Len(t, f.pw.requested, 1)

	ok, err := f.svc.ResetPasswordWithToken(context.Background(), "a@b.com", "tok", "new")
	require.NoError(t, err)
	assert.False(t, ok)

	f.pw.resetOK = true
	ok, err = f.svc.ResetPasswordWithToken(context.Background(), "a@b.com", "tok", "new")
	require.NoError(t, err)
	assert.True(t, ok)
}
