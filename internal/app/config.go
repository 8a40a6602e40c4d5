package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CatalogPath string              // empty means the embedded catalog
	Only        map[string][]string // category name -> labels to keep

	DryRun   bool
	FailFast bool
	Workers  int
	Timeout  time.Duration

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	NotifyURL       string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Workers < 1 {
		return nil, errors.New("Workers must be at least 1")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("Timeout must not be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("HealthcheckPort must be between 0 and 65535")
	}
	return &cfg, nil
}
