package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gpse/sesam-client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Run("json in production", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLogger(&buf, slog.LevelInfo, false)
		logger.Debug("hidden")
		logger.Info("visible", "k", "v")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
		assert.Equal(t, "visible", rec["msg"])
		assert.Equal(t, "v", rec["k"])
	})

	t.Run("text in dev", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLogger(&buf, slog.LevelDebug, true)
		logger.Debug("shown")
		assert.Contains(t, buf.String(), "msg=shown")
	})
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("dotenv values", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("SESAM_API_URL=https://dotenv.example/\n"), 0o600))
		t.Cleanup(func() { _ = os.Remove(".env") })
		t.Setenv("SESAM_API_URL", "")
		require.NoError(t, os.Unsetenv("SESAM_API_URL"))

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://dotenv.example", cfg.API.BaseURL)
		assert.Equal(t, config.StorageModeFile, cfg.Storage.Mode)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("SESAM_API_URL", "http://env.example:9000")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://env.example:9000", cfg.API.BaseURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Setenv("SESAM_API_URL", "not a url")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}
