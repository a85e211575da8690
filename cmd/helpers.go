package cmd

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/smartcalc/internal/app"
	"github.com/ziadkadry99/smartcalc/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `smartcalc init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openApp loads the config and wires the application. The caller must
// Close it.
func openApp(opts ...app.Option) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel, verbose)
	a, err := app.New(cfg, append([]app.Option{app.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return a, nil
}
