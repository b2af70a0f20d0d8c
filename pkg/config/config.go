// Package config provides the configuration structures for chainpool tools.
// It follows a single pattern: plain structs with defaults and an explicit
// Validate step, so misconfiguration fails before any pool is created.
package config

import (
	"github.com/ajitpratap0/chainpool/pkg/errors"
)

// PoolConfig configures a node pool and its surrounding observability.
type PoolConfig struct {
	// Name identifies the pool in logs and metrics labels
	Name string `yaml:"name" json:"name"`

	// InitialSize is the node capacity of the pool's first block. Later
	// blocks double from here.
	InitialSize int `yaml:"initial_size" json:"initial_size"`

	// EnableMetrics wires the pool to the Prometheus collectors
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`

	// LogLevel sets the logger level for pool events (zap level names)
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultPoolConfig returns a PoolConfig with production defaults.
func DefaultPoolConfig(name string) *PoolConfig {
	return &PoolConfig{
		Name:          name,
		InitialSize:   512,
		EnableMetrics: true,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for invalid values.
func (c *PoolConfig) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "pool name must not be empty")
	}
	if c.InitialSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "initial_size must be positive").
			WithDetail("initial_size", c.InitialSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrorTypeConfig, "unknown log_level").
			WithDetail("log_level", c.LogLevel)
	}
	return nil
}
