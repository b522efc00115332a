package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// APIConfig points the client at a Sesam backend.
type APIConfig struct {
	// BaseURL is the backend root; API paths ("/api/...") are appended to it.
	BaseURL string `env:"SESAM_API_URL" envDefault:"http://localhost:8088"`

	// Timeout bounds each request, including reading the response body.
	Timeout time.Duration `env:"SESAM_API_TIMEOUT" envDefault:"30s"`

	UserAgent string `env:"SESAM_USER_AGENT" envDefault:"sesamctl"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Timeout > 5*time.Minute {
		c.Timeout = 5 * time.Minute
	}
	if c.UserAgent = strings.TrimSpace(c.UserAgent); c.UserAgent == "" {
		c.UserAgent = "sesamctl"
	}
}

// Validate checks that BaseURL is an absolute http(s) URL.
func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("SESAM_API_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid SESAM_API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid SESAM_API_URL %q: must be an absolute http(s) URL", c.BaseURL)
	}
	return nil
}
