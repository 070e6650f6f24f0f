package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// config holds the engine-tunable parameters that are not set per-search
// via UCI setoption, loaded from an optional TOML file given by -config
// (default "vapor.toml", resolved against the working directory).
type config struct {
	HashMB   int    `toml:"hash_mb"`
	LogLevel string `toml:"log_level"`
}

func defaultConfig() config {
	return config{
		HashMB:   16,
		LogLevel: "INFO",
	}
}

// loadConfig reads path if it exists, overlaying values onto the
// built-in defaults. A missing file is not an error; a malformed one is.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
