// Package config holds the engine's runtime settings: codec registry
// sizing, block compression method, and logging.
package config

import (
	"fmt"
)

// Config represents the complete engine configuration
type Config struct {
	Registry    RegistryConfig    `mapstructure:"registry"`
	Compression CompressionConfig `mapstructure:"compression"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// RegistryConfig sizes the codec registry
type RegistryConfig struct {
	CacheSize int `mapstructure:"cache_size"` // max distinct type descriptors cached
}

// CompressionConfig selects the block envelope method
type CompressionConfig struct {
	Method string `mapstructure:"method"` // none, lz4, zstd
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Registry:    RegistryConfig{CacheSize: 1024},
		Compression: CompressionConfig{Method: "lz4"},
		Logging:     LoggingConfig{Level: "info", Format: "json"},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Registry.Validate(); err != nil {
		return fmt.Errorf("registry config: %w", err)
	}

	if err := c.Compression.Validate(); err != nil {
		return fmt.Errorf("compression config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates registry configuration
func (c *RegistryConfig) Validate() error {
	if c.CacheSize < 1 {
		return fmt.Errorf("invalid cache_size: %d", c.CacheSize)
	}

	return nil
}

// Validate validates compression configuration
func (c *CompressionConfig) Validate() error {
	switch c.Method {
	case "none", "lz4", "zstd":
		return nil
	}

	return fmt.Errorf("invalid method: %q", c.Method)
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level: %q", c.Level)
	}

	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid format: %q", c.Format)
	}

	return nil
}
