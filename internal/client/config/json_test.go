package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseJsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"environment": "staging",
		"base_url": "http://json.example.com",
		"local_db_path": "other.db",
		"cache_ttl": "10m"
	}`), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, EnvStaging, cfg.Environment)
	require.Equal(t, "http://json.example.com", cfg.BaseURL)
	require.Equal(t, "other.db", cfg.LocalDBPath)
	require.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestParseJsonWithoutFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client"}

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg
	parseJson(cfg)

	require.Equal(t, before, *cfg)
}

func TestPartialJsonKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"environment": "production"}`), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, EnvProduction, cfg.Environment)
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
}
