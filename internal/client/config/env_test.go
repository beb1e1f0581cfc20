package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv(EnvServerURL, "http://env:3000")
	t.Setenv(EnvRequestTimeout, "5s")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvNoColor, "1")

	cfg := &Config{Color: true}
	parseEnv(cfg)

	assert.Equal(t, "http://env:3000", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Color)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ASSIGNHUB_DB_PATH=from-dotenv.db\n"), 0o600))
	os.Args = []string{"testbin", "-env", path}

	t.Setenv(EnvDBPath, "")
	require.NoError(t, os.Unsetenv(EnvDBPath))

	cfg := &Config{DBPath: "default.db"}
	parseEnv(cfg)

	assert.Equal(t, "from-dotenv.db", cfg.DBPath)
}

func TestParseEnv_MalformedValuesIgnored(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv(EnvRequestTimeout, "soon")
	t.Setenv(EnvVerbose, "maybe")

	cfg := &Config{RequestTimeout: time.Second}
	parseEnv(cfg)

	assert.Equal(t, time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.Verbose)
}
