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

	t.Setenv("MAZURY_API_URL", "http://env:7000")
	t.Setenv("MAZURY_REQUEST_TIMEOUT", "3s")
	t.Setenv("MAZURY_SINGLE_FLIGHT_REFRESH", "true")
	t.Setenv("MAZURY_CHAIN_ID", "10")
	t.Setenv("MAZURY_LOG_LEVEL", "")

	cfg := &Config{LogLevel: "warn"}
	parseEnv(cfg)

	assert.Equal(t, "http://env:7000", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.SingleFlightRefresh)
	assert.Equal(t, 10, cfg.ChainID)
	assert.Equal(t, "warn", cfg.LogLevel, "empty variables are ignored")
}

func TestParseEnv_DotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "mazury.env")
	require.NoError(t, os.WriteFile(path, []byte("MAZURY_DATA_DIR=/from/dotenv\nMAZURY_LOG_FORMAT=json\n"), 0o600))
	os.Args = []string{"testbin", "-e", path}

	// Already-set variables win over the file.
	t.Setenv("MAZURY_LOG_FORMAT", "zap")
	// Registered for cleanup so the value loaded from the file is removed.
	t.Setenv("MAZURY_DATA_DIR", "")
	require.NoError(t, os.Unsetenv("MAZURY_DATA_DIR"))

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "/from/dotenv", cfg.DataDir)
	assert.Equal(t, "zap", cfg.LogFormat)
}

func TestParseEnv_Malformed(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("MAZURY_REQUEST_TIMEOUT", "soon")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
