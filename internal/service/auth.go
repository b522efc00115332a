package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	apperrors "github.com/gpse/sesam-client/internal/errors"
	"github.com/gpse/sesam-client/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Authenticator ports.Authenticator
	Passwords     ports.PasswordResetter
	Session       *SessionService
	Logger        *slog.Logger
}

// AuthService orchestrates login and password flows on top of the session.
type AuthService struct {
	authenticator ports.Authenticator
	passwords     ports.PasswordResetter
	session       *SessionService
	logger        *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: opts.Authenticator,
		passwords:     opts.Passwords,
		session:       opts.Session,
		logger:        logger,
	}
}

// Credentials are the email and password a user logs in with.
type Credentials struct {
	Email    string
	Password string
}

// RequestToken logs in and, on success, authenticates the session and stores the profile.
//
// Any failure logs the session out. A 401 from the backend yields an error matching
// apperrors.ErrActivationRequired; everything else matches apperrors.ErrAuthentication.
func (s *AuthService) RequestToken(ctx context.Context, creds Credentials) (*domainauth.Profile, error) {
	if strings.TrimSpace(creds.Email) == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}
	if creds.Password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}

	res, err := s.authenticator.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		if logoutErr := s.session.Authenticate(ctx, ""); logoutErr != nil {
			s.logger.WarnContext(ctx, "logout after failed login", "error", logoutErr)
		}
		if statusOf(err) == http.StatusUnauthorized {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeActivationRequired, "account not activated")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuthentication, "authentication failed")
	}

	if err := s.session.Authenticate(ctx, res.Token); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuthentication, "authentication failed")
	}
	s.session.Profiles().Set(&res.Profile)

	s.logger.InfoContext(ctx, "logged in", "username", res.Profile.Username, "roles", res.Profile.Roles.Strings())
	p := res.Profile.Clone()
	return &p, nil
}

// RequestPasswordReset asks the backend to mail a reset token to email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	return s.passwords.RequestPasswordReset(ctx, email)
}

// ResetPasswordWithToken sets a new password using a mailed reset token.
// It reports false, without an error, when the backend rejects the reset.
func (s *AuthService) ResetPasswordWithToken(ctx context.Context, email, token, password string) (bool, error) {
	return s.passwords.ResetPassword(ctx, email, token, password)
}

func statusOf(err error) int {
	var sc ports.StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}
