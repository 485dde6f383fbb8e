package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envOverrides lists the environment variables that override client settings.
type envOverrides struct {
	BaseURL     string        `envconfig:"VENUEOPS_BASE_URL"`
	TextModel   string        `envconfig:"VENUEOPS_TEXT_MODEL"`
	ImageModel  string        `envconfig:"VENUEOPS_IMAGE_MODEL"`
	Temperature *float64      `envconfig:"VENUEOPS_TEMPERATURE"`
	Timeout     time.Duration `envconfig:"VENUEOPS_TIMEOUT"`
	APIKey      string        `envconfig:"POLLINATIONS_API_KEY"`
	LegacyKey   string        `envconfig:"POLLINATIONS_KEY"`
}

// LoadDotEnv loads variables from .env style files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment overrides and the API credential onto cfg.
// POLLINATIONS_API_KEY takes precedence over POLLINATIONS_KEY.
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if env.BaseURL != "" {
		cfg.Client.BaseURL = env.BaseURL
	}
	if env.TextModel != "" {
		cfg.Client.TextModel = env.TextModel
	}
	if env.ImageModel != "" {
		cfg.Client.ImageModel = env.ImageModel
	}
	if env.Temperature != nil {
		cfg.Client.Temperature = *env.Temperature
	}
	if env.Timeout > 0 {
		cfg.Client.Timeout = env.Timeout
	}
	cfg.Client.APIKey = strings.TrimSpace(env.APIKey)
	if cfg.Client.APIKey == "" {
		cfg.Client.APIKey = strings.TrimSpace(env.LegacyKey)
	}
	return nil
}
