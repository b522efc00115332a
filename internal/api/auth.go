package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/gpse/sesam-client/internal/ports"
)

// ErrMissingToken is returned when a successful login response carries no Authorization header.
var ErrMissingToken = errors.New("login response carried no authorization header")

type profileDTO struct {
	Forename string   `json:"forename"`
	Surname  string   `json:"surname"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (c *Client) toProfile(dto profileDTO) domainauth.Profile {
	return domainauth.Profile{
		Forename: dto.Forename,
		Surname:  dto.Surname,
		Email:    dto.Username,
		Username: dto.Username,
		Roles:    c.roles.Map(dto.Roles),
	}
}

// Login exchanges email and password for a bearer token and the user's profile.
// A 401 means the account exists but is not activated yet.
func (c *Client) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	resp, err := c.send(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/api/authenticate",
		form:   url.Values{"username": {email}, "password": {password}},
	})
	if err != nil {
		return ports.LoginResult{}, err
	}

	token := resp.header.Get("Authorization")
	if token == "" {
		return ports.LoginResult{}, ErrMissingToken
	}
	var dto profileDTO
	if err := decode("login", resp.body, &dto); err != nil {
		return ports.LoginResult{}, err
	}
	return ports.LoginResult{Token: token, Profile: c.toProfile(dto)}, nil
}

// Profile returns the profile of the user the armed credential belongs to.
func (c *Client) Profile(ctx context.Context) (domainauth.Profile, error) {
	var dto profileDTO
	if err := c.call(ctx, request{op: "profile", method: http.MethodGet, path: "/api/profile"}, &dto); err != nil {
		return domainauth.Profile{}, err
	}
	return c.toProfile(dto), nil
}

// RequestPasswordReset asks the backend to mail a reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.call(ctx, request{
		op:     "request password reset",
		method: http.MethodPost,
		path:   "/api/user/requestResetPasswordPerMail",
		query:  url.Values{"email": {email}},
	}, nil)
}

// ResetPassword sets a new password with a mailed token. It reports whether
// the backend answered 200; other statuses are not errors.
func (c *Client) ResetPassword(ctx context.Context, email, token, password string) (bool, error) {
	resp, err := c.send(ctx, request{
		op:        "reset password",
		method:    http.MethodPost,
		path:      "/api/user/resetPassword",
		query:     url.Values{"email": {email}, "token": {token}, "password": {password}},
		anyStatus: true,
	})
	if err != nil {
		return false, err
	}
	return resp.status == http.StatusOK, nil
}

// RegistrationOutcome is the backend's verdict on a registration request.
type RegistrationOutcome string

const (
	Registered  RegistrationOutcome = "registered"
	UserExists  RegistrationOutcome = "user exists"
	InvalidData RegistrationOutcome = "invalid data"
)

// Register creates a new, not yet activated account.
func (c *Client) Register(ctx context.Context, forename, surname, email, password string) (RegistrationOutcome, error) {
	body, err := c.text(ctx, request{
		op:     "register",
		method: http.MethodPost,
		path:   "/api/user/registration",
		form: url.Values{
			"forename": {forename},
			"surname":  {surname},
			"email":    {email},
			"password": {password},
		},
	})
	if err != nil {
		return "", err
	}
	return RegistrationOutcome(body), nil
}

// ConfirmRegistration redeems the token from the registration mail.
func (c *Client) ConfirmRegistration(ctx context.Context, email, token string) (bool, error) {
	var ok bool
	err := c.call(ctx, request{
		op:     "confirm registration",
		method: http.MethodPost,
		path:   "/api/user/registration/confirm",
		form:   url.Values{"email": {email}, "token": {token}},
	}, &ok)
	return ok, err
}

// ChangePassword reports false when the old password was wrong.
func (c *Client) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) (bool, error) {
	return c.verdict(ctx, request{
		op:     "change password",
		method: http.MethodPost,
		path:   "/api/user/changePassword",
		form: url.Values{
			"email":       {email},
			"oldPassword": {oldPassword},
			"newPassword": {newPassword},
		},
	}, "valid")
}

// ChangeUser updates the name and email of the account identified by username.
func (c *Client) ChangeUser(ctx context.Context, username, forename, surname, email string) (bool, error) {
	return c.verdict(ctx, request{
		op:     "change user",
		method: http.MethodPost,
		path:   "/api/user/changeUser",
		form: url.Values{
			"username":    {username},
			"newForename": {forename},
			"newSurname":  {surname},
			"newEmail":    {email},
		},
	}, "valid")
}

// DeleteAccount deletes the caller's own account after re-checking the password.
func (c *Client) DeleteAccount(ctx context.Context, email, password string) (bool, error) {
	return c.verdict(ctx, request{
		op:     "delete account",
		method: http.MethodPost,
		path:   "/api/user/deleteUser",
		form:   url.Values{"email": {email}, "password": {password}},
	}, "valid")
}
