package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/flagx"
	"github.com/avolkovs/sessionkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the TTL either as a string like "5m" or
// as integer nanoseconds. After parsing, values are copied into the runtime
// Config.
type JsonConfig struct {
	Environment string         `json:"environment"`
	BaseURL     string         `json:"base_url"`
	LocalDBPath string         `json:"local_db_path"`
	CacheTTL    timex.Duration `json:"cache_ttl"`
}

// parseJson overlays Config with values loaded from a JSON file given via
// the -c/-config flags. Missing file path means no overlay. Read or
// unmarshal errors panic; intended order is defaults -> parseJson ->
// parseFlags, where later stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Environment != "" {
		cfg.Environment = Environment(jc.Environment)
	}
	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.CacheTTL.Duration != 0 {
		cfg.CacheTTL = time.Duration(jc.CacheTTL.Duration)
	}
}
