package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, EnvDevelopment, cfg.Environment)
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
	require.NotEmpty(t, cfg.LocalDBPath)
}

func TestResolveBaseURL(t *testing.T) {
	cfg := &Config{Environment: EnvStaging}
	require.Equal(t, "https://staging.api.sessionkeeper.app", cfg.ResolveBaseURL())

	cfg.BaseURL = "http://localhost:9999"
	require.Equal(t, "http://localhost:9999", cfg.ResolveBaseURL())
}

func TestResolveBaseURLUnknownEnvironmentFallsBack(t *testing.T) {
	cfg := &Config{Environment: Environment("weird")}
	require.Equal(t, baseURLs[EnvDevelopment], cfg.ResolveBaseURL())
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client", "-e", "production", "-u", "http://example.com", "-t", "120"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, EnvProduction, cfg.Environment)
	require.Equal(t, "http://example.com", cfg.BaseURL)
	require.Equal(t, 2*time.Minute, cfg.CacheTTL)
}
