// Package config loads runner settings from an optional yaml file with
// environment-variable overrides on top. Environment always wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// BaseURL is the mission service origin, no trailing slash.
	BaseURL string `yaml:"baseURL" env:"CLAIMD_BASE_URL"`
	// CatalogURL is the asset the target catalog is extracted from.
	CatalogURL string `yaml:"catalogURL" env:"CLAIMD_CATALOG_URL"`
	// ServiceName is the label in the sign-in challenge message. Part of
	// the wire contract with the server; change only if the server does.
	ServiceName string `yaml:"serviceName" env:"CLAIMD_SERVICE_NAME"`

	// SecretKey holds a single key entry (or a comma-separated list).
	// Never read from the yaml file.
	SecretKey string `yaml:"-" env:"CLAIMD_SECRET_KEY"`
	// KeysFile points at a newline-separated key file.
	KeysFile string `yaml:"keysFile" env:"CLAIMD_KEYS_FILE"`
	// Referral is forwarded on the run's first challenge request only.
	Referral string `yaml:"referral" env:"CLAIMD_REFERRAL"`

	ClaimInterval   time.Duration `yaml:"claimInterval" env:"CLAIMD_CLAIM_INTERVAL"`
	AccountInterval time.Duration `yaml:"accountInterval" env:"CLAIMD_ACCOUNT_INTERVAL"`
	HTTPTimeout     time.Duration `yaml:"httpTimeout" env:"CLAIMD_HTTP_TIMEOUT"`

	// MetricsAddr, when set, serves /metrics for the duration of the run.
	MetricsAddr string `yaml:"metricsAddr" env:"CLAIMD_METRICS_ADDR"`
}

func Default() Config {
	return Config{
		ServiceName:     "Meridian",
		ClaimInterval:   400 * time.Millisecond,
		AccountInterval: 800 * time.Millisecond,
		HTTPTimeout:     30 * time.Second,
	}
}

// Load merges Default <- yaml file (if path is non-empty) <- environment.
// Callers apply any flag overrides on top and then run Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("baseURL is required")
	}
	if c.CatalogURL == "" {
		return errors.New("catalogURL is required")
	}
	if c.SecretKey == "" && c.KeysFile == "" {
		return errors.New("either CLAIMD_SECRET_KEY or a keys file is required")
	}
	return nil
}
