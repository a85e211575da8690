package config

import (
	"path/filepath"
	"time"
)

// DefaultPath is where the CLI looks for its configuration.
const DefaultPath = ".smartcalc.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:            "http://localhost:5000",
		DataDir:           ".smartcalc",
		LogLevel:          "warn",
		Theme:             "dark",
		AngleMode:         "DEG",
		DebounceMS:        500,
		NotifyDurationMS:  5000,
		StorageQuotaBytes: 5 << 20,
		History: HistoryConfig{
			CalculatorMax: 20,
			ConverterMax:  30,
			ScientificMax: 50,
		},
		Server: ServerConfig{
			Port: 8090,
		},
	}
}

// DatabasePath is the SQLite file under DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "smartcalc.db")
}

// Debounce is DebounceMS as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// NotifyDuration is NotifyDurationMS as a duration.
func (c *Config) NotifyDuration() time.Duration {
	return time.Duration(c.NotifyDurationMS) * time.Millisecond
}
