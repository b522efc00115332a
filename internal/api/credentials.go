package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gpse/sesam-client/internal/domain/model"
)

// Credentials returns every credential schema.
func (c *Client) Credentials(ctx context.Context) ([]model.CredentialSchema, error) {
	var creds []model.CredentialSchema
	err := c.call(ctx, request{op: "credentials", method: http.MethodGet, path: "/api/credentials"}, &creds)
	return creds, err
}

// Credential returns one credential schema.
func (c *Client) Credential(ctx context.Context, id int64) (model.CredentialSchema, error) {
	var cred model.CredentialSchema
	err := c.call(ctx, request{op: "credential", method: http.MethodGet, path: idPath("/api/credentials/%d", id)}, &cred)
	return cred, err
}

// PermittedCredentials returns the credentials the current user holds.
func (c *Client) PermittedCredentials(ctx context.Context) ([]model.CredentialSchema, error) {
	var creds []model.CredentialSchema
	err := c.call(ctx, request{op: "permitted credentials", method: http.MethodGet, path: "/api/credentials/permitted"}, &creds)
	return creds, err
}

// IssuableCredentials returns the credentials the current user may issue.
func (c *Client) IssuableCredentials(ctx context.Context) ([]model.CredentialSchema, error) {
	var creds []model.CredentialSchema
	err := c.call(ctx, request{op: "issuable credentials", method: http.MethodGet, path: "/api/credentials/issuable"}, &creds)
	return creds, err
}

// CredentialGroupUnions returns credentials and credential groups in one list.
func (c *Client) CredentialGroupUnions(ctx context.Context) ([]model.CredentialGroupUnion, error) {
	var unions []model.CredentialGroupUnion
	err := c.call(ctx, request{op: "credential group unions", method: http.MethodGet, path: "/api/credentialGroupUnions"}, &unions)
	return unions, err
}

// UpdateChecklist replaces the checklist of a credential.
func (c *Client) UpdateChecklist(ctx context.Context, id int64, items []string) error {
	if items == nil {
		items = []string{}
	}
	return c.call(ctx, request{
		op:     "update checklist",
		method: http.MethodPost,
		path:   idPath("/api/credentials/%d/checklist", id),
		json:   map[string][]string{"items": items},
	}, nil)
}

// UpdateCredential edits the descriptive fields of a credential.
func (c *Client) UpdateCredential(ctx context.Context, id int64, name, origin, additional string) (string, error) {
	return c.text(ctx, request{
		op:     "update credential",
		method: http.MethodPost,
		path:   idPath("/api/admin/credentials/edit/%d/save", id),
		form:   url.Values{"name": {name}, "origin": {origin}, "additional": {additional}},
	})
}

// CredentialGroups returns every credential group.
func (c *Client) CredentialGroups(ctx context.Context) ([]model.CredentialGroup, error) {
	var groups []model.CredentialGroup
	err := c.call(ctx, request{op: "credential groups", method: http.MethodGet, path: "/api/admin/credentialgroups/all"}, &groups)
	return groups, err
}

// CredentialGroup returns the group called name.
func (c *Client) CredentialGroup(ctx context.Context, name string) (model.CredentialGroup, error) {
	var group model.CredentialGroup
	err := c.call(ctx, request{
		op:     "credential group",
		method: http.MethodGet,
		path:   "/api/admin/credentialgroups/get",
		query:  url.Values{"name": {name}},
	}, &group)
	return group, err
}

// CredentialGroupInput describes a credential group to create or update.
type CredentialGroupInput struct {
	CredentialIDs []int64
	Name          string
	Origin        string
	Additional    string
}

func (in CredentialGroupInput) form() url.Values {
	return url.Values{
		"CredentialIDs": {joinIDs(in.CredentialIDs)},
		"name":          {in.Name},
		"origin":        {in.Origin},
		"additional":    {in.Additional},
	}
}

// AddCredentialGroup creates a credential group.
func (c *Client) AddCredentialGroup(ctx context.Context, in CredentialGroupInput) (string, error) {
	return c.text(ctx, request{
		op:     "add credential group",
		method: http.MethodPost,
		path:   "/api/credentialgroups/add",
		form:   in.form(),
	})
}

// UpdateCredentialGroup replaces the group formerly called oldName.
func (c *Client) UpdateCredentialGroup(ctx context.Context, oldName string, in CredentialGroupInput) (string, error) {
	form := in.form()
	form.Set("oldGroupName", oldName)
	return c.text(ctx, request{
		op:     "update credential group",
		method: http.MethodPost,
		path:   "/api/admin/credentialgroups/update",
		form:   form,
	})
}

// DeleteCredentialGroup removes the group called name.
func (c *Client) DeleteCredentialGroup(ctx context.Context, name string) error {
	return c.call(ctx, request{
		op:     "delete credential group",
		method: http.MethodPost,
		path:   "/api/admin/credentialgroups/delete",
		form:   url.Values{"name": {name}},
	}, nil)
}

// CreateIssueQR asks the issuer service for a QR code URL that issues a
// credential of definitionID with the given attribute values.
func (c *Client) CreateIssueQR(ctx context.Context, definitionID string, attributes map[string]string) (string, error) {
	form := url.Values{"credentialDefinitionId": {definitionID}}
	for name, value := range attributes {
		if name == "credentialDefinitionId" {
			continue
		}
		form.Set(name, value)
	}
	return c.text(ctx, request{
		op:     "create issue qr",
		method: http.MethodPost,
		path:   "/api/issuer/create/qr",
		form:   form,
	})
}

// DesignSettings returns the website configuration.
func (c *Client) DesignSettings(ctx context.Context) (model.WebsiteConfiguration, error) {
	var cfg model.WebsiteConfiguration
	err := c.call(ctx, request{op: "design settings", method: http.MethodGet, path: "/api/admin/designsettings"}, &cfg)
	return cfg, err
}
