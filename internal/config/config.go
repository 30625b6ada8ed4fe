// Package config loads driver configuration from a TOML file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "GPDRIVE_CONFIG"

// Config holds the driver settings. Zero values fall back to the
// defaults applied by Load.
type Config struct {
	Engine struct {
		// Path is the engine binary. Default "gnuplot".
		Path string `toml:"path"`
		// MinVersion overrides the built-in minimum version gate.
		MinVersion string `toml:"min_version"`
		// Init statements run at session creation and after each reset
		// (terminal selection, encodings).
		Init []string `toml:"init"`
	} `toml:"engine"`

	Data struct {
		// PreferText forces inline text datasets.
		PreferText bool `toml:"prefer_text"`
		// TextThreshold is the element count below which data goes
		// inline. Zero keeps the built-in default.
		TextThreshold int `toml:"text_threshold"`
		// TempDir is the parent for binary temp files.
		TempDir string `toml:"temp_dir"`
	} `toml:"data"`

	Console struct {
		// Verbose echoes the engine's unsolicited diagnostic lines.
		Verbose bool `toml:"verbose"`
	} `toml:"console"`

	Log struct {
		// Level is debug, info, warn, or error. Default warn.
		Level string `toml:"level"`
		// File additionally writes JSON logs to this path.
		File string `toml:"file"`
	} `toml:"log"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gpdrive", "config.toml")
}

// Load reads the config file, if any, and applies defaults. A missing
// file is not an error.
func Load() (Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultPath()
	}
	return LoadFile(path)
}

// LoadFile reads one specific config file and applies defaults.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.Path == "" {
		c.Engine.Path = "gnuplot"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}
