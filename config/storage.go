package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageMode selects where the token and preferences are persisted.
type StorageMode string

const (
	// StorageModeFile keeps state in a JSON file in the user's config dir.
	StorageModeFile StorageMode = "file"
	// StorageModeRedis keeps state in Redis so several terminals share one session.
	StorageModeRedis StorageMode = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageMode.
func (m *StorageMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis":
		*m = StorageMode(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageMode: %q (valid options: file, redis)", v)
	}
}

// StorageConfig configures the persisted client state.
type StorageConfig struct {
	Mode StorageMode `env:"SESAM_STORAGE_MODE" envDefault:"file"`

	// StateFile overrides the state file location. Empty means the per-user default.
	StateFile string `env:"SESAM_STATE_FILE"`

	// RedisPrefix namespaces keys in Redis mode.
	RedisPrefix string `env:"SESAM_REDIS_PREFIX" envDefault:"sesam:client:"`

	// RedisTTL expires idle state in Redis mode. Zero keeps it forever.
	RedisTTL time.Duration `env:"SESAM_REDIS_TTL" envDefault:"0s"`
}

// Sanitize applies guardrails to storage configuration values.
func (c *StorageConfig) Sanitize() {
	c.StateFile = strings.TrimSpace(c.StateFile)
	if c.RedisPrefix = strings.TrimSpace(c.RedisPrefix); c.RedisPrefix == "" {
		c.RedisPrefix = "sesam:client:"
	}
	if c.RedisTTL < 0 {
		c.RedisTTL = 0
	}
	if c.Mode == "" {
		c.Mode = StorageModeFile
	}
}

// Validate rejects unknown storage modes.
func (c *StorageConfig) Validate() error {
	switch c.Mode {
	case StorageModeFile, StorageModeRedis:
		return nil
	default:
		return fmt.Errorf("invalid SESAM_STORAGE_MODE %q", c.Mode)
	}
}

// RedisConfig contains Redis connection settings for StorageModeRedis.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
