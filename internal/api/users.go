package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
	"github.com/gpse/sesam-client/internal/domain/model"
)

// FilterUsers lists accounts matching f. Requires the admin role.
func (c *Client) FilterUsers(ctx context.Context, f model.UserFilter) ([]model.User, error) {
	var users []model.User
	err := c.call(ctx, request{
		op:     "filter users",
		method: http.MethodGet,
		path:   "/api/admin/users/filter",
		query: url.Values{
			"permission": {f.Permission},
			"activated":  {f.Activated},
			"searchType": {string(f.SearchType)},
			"search":     {f.Search},
		},
	}, &users)
	return users, err
}

// ActivateUsers activates the given accounts.
func (c *Client) ActivateUsers(ctx context.Context, emails []string) (bool, error) {
	return c.bulkUsers(ctx, "activate users", "/api/admin/users/activate", emails)
}

// DeactivateUsers deactivates the given accounts.
func (c *Client) DeactivateUsers(ctx context.Context, emails []string) (bool, error) {
	return c.bulkUsers(ctx, "deactivate users", "/api/admin/users/deactivate", emails)
}

// DeleteUsers removes the given accounts.
func (c *Client) DeleteUsers(ctx context.Context, emails []string) (bool, error) {
	return c.bulkUsers(ctx, "delete users", "/api/admin/users/delete", emails)
}

func (c *Client) bulkUsers(ctx context.Context, op, path string, emails []string) (bool, error) {
	return c.verdict(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   path,
		form:   url.Values{"emails": {strings.Join(emails, ",")}},
	}, "valid")
}

// UserInformation returns one account.
func (c *Client) UserInformation(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := c.call(ctx, request{
		op:     "user information",
		method: http.MethodGet,
		path:   escaped("/api/users/email/%s", email),
	}, &u)
	return u, err
}

// UserRoles returns the backend role identifiers of an account.
func (c *Client) UserRoles(ctx context.Context, email string) ([]string, error) {
	var roles []string
	err := c.call(ctx, request{
		op:     "user roles",
		method: http.MethodGet,
		path:   escaped("/api/users/%s/roles", email),
	}, &roles)
	return roles, err
}

// SetUserRoles replaces the roles of an account. An empty set removes all roles.
func (c *Client) SetUserRoles(ctx context.Context, email string, roles domainauth.RoleSet) error {
	ids := make([]string, 0, len(roles))
	for _, r := range roles.Slice() {
		ids = append(ids, strconv.Itoa(int(r)))
	}
	return c.call(ctx, request{
		op:     "set user roles",
		method: http.MethodPost,
		path:   escaped("/api/admin/users/roles/%s", email),
		form:   url.Values{"roles": {strings.Join(ids, ",")}},
	}, nil)
}

// PermittedCredentialsOf returns the credentials an account holds.
func (c *Client) PermittedCredentialsOf(ctx context.Context, email string) ([]model.CredentialSchema, error) {
	var creds []model.CredentialSchema
	err := c.call(ctx, request{
		op:     "permitted credentials of user",
		method: http.MethodGet,
		path:   escaped("/api/users/%s/credentials", email),
	}, &creds)
	return creds, err
}

// SetIssuerCredentials sets which credentials an issuer may issue.
func (c *Client) SetIssuerCredentials(ctx context.Context, email string, credentialIDs []int64) error {
	return c.call(ctx, request{
		op:     "set issuer credentials",
		method: http.MethodPost,
		path:   "/api/admin/users/credentials/allowIssue",
		form:   url.Values{"email": {email}, "credentials": {joinIDs(credentialIDs)}},
	}, nil)
}

// IssuableCredentialsOf returns the credentials an issuer may issue.
func (c *Client) IssuableCredentialsOf(ctx context.Context, email string) ([]model.CredentialSchema, error) {
	var creds []model.CredentialSchema
	err := c.call(ctx, request{
		op:     "issuable credentials of user",
		method: http.MethodGet,
		path:   escaped("/api/admin/users/credentials/issuable/%s", email),
	}, &creds)
	return creds, err
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
