package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the client configuration, loaded from environment variables
// with github.com/caarlos0/env. See the domain files for the individual variables:
//   - api.go: backend endpoint
//   - storage.go: persisted state (file or Redis)
//   - observability.go: metrics
//   - cli.go: output defaults
type AppConfig struct {
	// IsDev enables text logging and debug output.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	LogLevel LogLevel `env:"LOG_LEVEL" envDefault:"info"`

	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	Observability ObservabilityConfig

	CLI CLIConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Storage.Sanitize()
	c.Observability.Sanitize()
	c.detectDevMode()
}

// Validate reports configuration that cannot work at all.
func (c *AppConfig) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
}

// detectDevMode falls back to NODE_ENV when DEV is unset.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// LogLevel is a slog level parsed from its lowercase name.
type LogLevel slog.Level

// UnmarshalText implements encoding.TextUnmarshaler for LogLevel.
func (l *LogLevel) UnmarshalText(text []byte) error {
	switch v := strings.ToLower(strings.TrimSpace(string(text))); v {
	case "debug":
		*l = LogLevel(slog.LevelDebug)
	case "info", "":
		*l = LogLevel(slog.LevelInfo)
	case "warn", "warning":
		*l = LogLevel(slog.LevelWarn)
	case "error":
		*l = LogLevel(slog.LevelError)
	default:
		return fmt.Errorf("invalid LogLevel: %q (valid options: debug, info, warn, error)", v)
	}
	return nil
}

// Level returns the slog level.
func (l LogLevel) Level() slog.Level { return slog.Level(l) }
