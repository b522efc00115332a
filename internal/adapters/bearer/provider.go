// Package bearer carries the session's bearer token onto outbound API requests.
package bearer

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gpse/sesam-client/internal/ports"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned by Token when no credential is armed.
var ErrNoToken = errors.New("no bearer token armed")

// Provider holds the credential attached to every outbound request.
// It is safe for concurrent use.
type Provider struct {
	token atomic.Pointer[oauth2.Token]
}

var (
	_ ports.CredentialSink = (*Provider)(nil)
	_ oauth2.TokenSource   = (*Provider)(nil)
)

// NewProvider returns a provider with no credential armed.
func NewProvider() *Provider {
	return &Provider{}
}

// SetToken arms raw, the value the backend returned in its Authorization header.
// "Bearer xyz" and a bare "xyz" both go out as "Bearer xyz".
func (p *Provider) SetToken(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		p.Clear()
		return
	}
	tok := &oauth2.Token{AccessToken: raw}
	if scheme, value, ok := strings.Cut(raw, " "); ok {
		tok.TokenType = scheme
		tok.AccessToken = strings.TrimSpace(value)
	}
	p.token.Store(tok)
}

// Clear disarms the credential.
func (p *Provider) Clear() {
	p.token.Store(nil)
}

// Token implements oauth2.TokenSource.
func (p *Provider) Token() (*oauth2.Token, error) {
	tok := p.token.Load()
	if tok == nil {
		return nil, ErrNoToken
	}
	cp := *tok
	return &cp, nil
}

// Armed reports whether a credential is present.
func (p *Provider) Armed() bool {
	return p.token.Load() != nil
}

// Transport adds the armed credential to requests. Requests go out
// unauthenticated when nothing is armed.
type Transport struct {
	Provider *Provider
	Base     http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	tok := t.Provider.token.Load()
	if tok == nil {
		return base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	tok.SetAuthHeader(out)
	return base.RoundTrip(out)
}
