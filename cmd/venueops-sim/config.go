package main

import (
	"venueops-sim/internal/config"
)

// loadConfig reads .env, the YAML config and the environment overrides, in
// that order.
func loadConfig(configPath, schemaPath string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath, schemaPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
