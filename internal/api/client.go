// Package api is the HTTP client for the Sesam backend REST API.
//
// Every method issues exactly one request and never retries. Non-success
// statuses surface as *HTTPStatusError naming the failed operation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gpse/sesam-client/internal/adapters/authroles"
	"github.com/gpse/sesam-client/internal/observability/metrics"
	"github.com/gpse/sesam-client/internal/observability/statsd"
	"github.com/gpse/sesam-client/internal/ports"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "sesamctl"
	maxErrorBody     = 512
	requestIDHeader  = "X-Request-ID"
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport wraps outbound requests, typically to attach the bearer credential.
	Transport http.RoundTripper
	Roles     ports.RoleMapper
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// Client talks to one Sesam backend. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	hc        *http.Client
	userAgent string
	roles     ports.RoleMapper
	metrics   statsd.Sink
	logger    *slog.Logger
}

var (
	_ ports.Authenticator    = (*Client)(nil)
	_ ports.ProfileFetcher   = (*Client)(nil)
	_ ports.PasswordResetter = (*Client)(nil)
)

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("api base url %q has no host", raw)
	}
	base.Path = strings.TrimRight(base.Path, "/")
	base.RawPath = ""
	base.RawQuery = ""
	base.Fragment = ""

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	roles := cfg.Roles
	if roles == nil {
		roles = authroles.StaticRoleMapper{Logger: logger}
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		base:      base,
		hc:        &http.Client{Timeout: timeout, Transport: cfg.Transport, Jar: jar},
		userAgent: userAgent,
		roles:     roles,
		metrics:   cfg.Metrics,
		logger:    logger,
	}, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// HTTPStatusError reports a response outside the operation's success statuses.
type HTTPStatusError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("%s: %s %s: %s", e.Op, e.Method, e.Path, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// HTTPStatus returns the response status code.
func (e *HTTPStatusError) HTTPStatus() int { return e.StatusCode }

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Upload is a file part of a multipart request.
type Upload struct {
	Filename string
	Content  io.Reader
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	form   url.Values
	json   any
	parts  map[string]string
	files  map[string]Upload
	// ok lists the success statuses; nil means 200 only.
	ok []int
	// anyStatus returns every response to the caller instead of an HTTPStatusError.
	anyStatus bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// endpoint joins the base URL with an already escaped path.
func (c *Client) endpoint(path string, query url.Values) string {
	s := c.base.String() + path
	if len(query) > 0 {
		s += "?" + query.Encode()
	}
	return s
}

func (r request) encodeBody() (io.Reader, string, error) {
	switch {
	case r.json != nil:
		b, err := json.Marshal(r.json)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s body: %w", r.op, err)
		}
		return bytes.NewReader(b), "application/json", nil
	case r.parts != nil || r.files != nil:
		return encodeMultipart(r.parts, r.files)
	case r.form != nil:
		return strings.NewReader(r.form.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(fields map[string]string, files map[string]Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range sortedKeys(fields) {
		if err := w.WriteField(name, fields[name]); err != nil {
			return nil, "", fmt.Errorf("write multipart field %s: %w", name, err)
		}
	}
	for _, name := range sortedKeys(files) {
		f := files[name]
		filename := f.Filename
		if filename == "" {
			filename = name
		}
		part, err := w.CreateFormFile(name, filename)
		if err != nil {
			return nil, "", fmt.Errorf("create multipart file %s: %w", name, err)
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", fmt.Errorf("copy multipart file %s: %w", name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// send performs r and returns the fully read response.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	body, contentType, err := r.encodeBody()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", r.op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.do(req, r)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.status
	}
	metrics.EmitAPICall(c.metrics, metrics.APICall{
		Op:       r.op,
		Method:   r.method,
		Status:   status,
		Duration: elapsed,
		Err:      err,
	})
	c.logger.DebugContext(ctx, "api request",
		"op", r.op,
		"method", r.method,
		"path", r.path,
		"status", status,
		"duration", elapsed,
		"request_id", requestID,
	)
	return resp, err
}

func (c *Client) do(req *http.Request, r request) (*response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", r.op, err)
	}

	data, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return &response{status: resp.StatusCode}, errors.Join(
			fmt.Errorf("read %s response: %w", r.op, readErr),
			closeErr,
		)
	}
	if closeErr != nil {
		return &response{status: resp.StatusCode}, fmt.Errorf("close response body: %w", closeErr)
	}

	out := &response{status: resp.StatusCode, header: resp.Header, body: data}
	if r.anyStatus || r.succeeded(resp.StatusCode) {
		return out, nil
	}
	return out, &HTTPStatusError{
		Op:         r.op,
		Method:     r.method,
		Path:       r.path,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       excerpt(data),
	}
}

func (r request) succeeded(status int) bool {
	if r.ok == nil {
		return status == http.StatusOK
	}
	return slices.Contains(r.ok, status)
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// call performs r and decodes a JSON response body into out when out is non-nil.
func (c *Client) call(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(r.op, resp.body, out)
}

// decode unmarshals body into out; an empty body leaves out untouched.
func decode(op string, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// text performs r and returns the trimmed response body.
func (c *Client) text(ctx context.Context, r request) (string, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp.body)), nil
}

// verdict performs r and reports whether the body equals the backend's success word.
func (c *Client) verdict(ctx context.Context, r request, success string) (bool, error) {
	body, err := c.text(ctx, r)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.Trim(body, `"`), success), nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func escaped(format, segment string) string {
	return fmt.Sprintf(format, url.PathEscape(segment))
}
