package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL_HOURS", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AI_TIMEOUT_SECONDS", "5")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg := Load()

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 5*time.Second, cfg.AITimeout)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadFile_OverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: \"7000\"\ndb_driver: sqlite\nrate_limit_burst: 3\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Port)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
