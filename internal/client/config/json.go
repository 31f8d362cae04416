package config

import (
	"encoding/json"
	"os"
	"time"

	"nearwave/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// are specified in seconds; zero values leave the corresponding Config
// field untouched.
type JsonConfig struct {
	ServerBaseURL     string `json:"server_base_url"`
	DatabasePath      string `json:"database_path"`
	DefaultScanRadius int    `json:"default_scan_radius"`
	HTTPTimeoutSec    int    `json:"http_timeout_sec"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c/-config flags via flagx.JsonConfigFlags;
// when no path is given, nothing is loaded. Read or unmarshal errors panic,
// matching the flags layer: a config the user pointed at explicitly must
// not be half-applied silently.
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

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DefaultScanRadius != 0 {
		cfg.DefaultScanRadius = jc.DefaultScanRadius
	}
	if jc.HTTPTimeoutSec != 0 {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeoutSec) * time.Second
	}
}
