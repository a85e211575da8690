package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override the file.
const EnvPrefix = "SMARTCALC_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SMARTCALC_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// SMARTCALC_API_URL -> api_url, SMARTCALC_HISTORY__CALCULATOR_MAX -> history.calculator_max.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validThemes = map[string]bool{
	"dark":  true,
	"light": true,
}

var validAngleModes = map[string]bool{
	"DEG":  true,
	"RAD":  true,
	"GRAD": true,
}

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid api_url %q: must start with http:// or https://", c.APIURL)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if !validThemes[c.Theme] {
		return fmt.Errorf("invalid theme %q: must be dark or light", c.Theme)
	}

	if !validAngleModes[c.AngleMode] {
		return fmt.Errorf("invalid angle_mode %q: must be one of DEG, RAD, GRAD", c.AngleMode)
	}

	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must be non-negative")
	}

	if c.NotifyDurationMS < 0 {
		return fmt.Errorf("notify_duration_ms must be non-negative")
	}

	if c.StorageQuotaBytes < 0 {
		return fmt.Errorf("storage_quota_bytes must be non-negative")
	}

	if c.History.CalculatorMax <= 0 || c.History.ConverterMax <= 0 || c.History.ScientificMax <= 0 {
		return fmt.Errorf("history bounds must be positive")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	return nil
}
