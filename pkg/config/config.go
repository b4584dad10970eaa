package config

import (
	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/match"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/signature"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Method          string             `yaml:"method"` // filename, size, hash or sampled
	CaseInsensitive bool               `yaml:"case_insensitive"`
	Verify          bool               `yaml:"verify"`    // Full hash on sampled match
	Flat            bool               `yaml:"flat"`      // Group by content instead of path
	FullHash        bool               `yaml:"full_hash"` // Flat mode only
	Sampling        signature.Sampling `yaml:"sampling"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	Workers    int `yaml:"workers"`
	BufferSize int `yaml:"buffer_size"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "text" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar on terminals
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format   string `yaml:"format"`   // "text" or "json"
	Level    string `yaml:"level"`    // "debug", "info", "warn", "error"
	File     string `yaml:"file"`     // Log file path (empty = stderr)
	Template string `yaml:"template"` // Text line template, e.g. "[{level}] {message}"
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Method:   "hash",
			Sampling: signature.DefaultSampling(),
		},
		Performance: PerformanceConfig{
			Workers:    4,
			BufferSize: 65536,
		},
		Output: OutputConfig{
			Format:   "text",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "warn",
			File:   "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := compare.ParseKind(c.Compare.Method); err != nil {
		return err
	}

	if err := c.Compare.Sampling.Validate(); err != nil {
		return err
	}

	if c.Performance.Workers < 1 {
		return &models.ValidationError{
			Field:   "performance.workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'text' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// Strategy builds the hierarchy-mode comparison strategy
func (c *Config) Strategy() (compare.Strategy, error) {
	kind, err := compare.ParseKind(c.Compare.Method)
	if err != nil {
		return compare.Strategy{}, err
	}
	return compare.Strategy{
		Kind:            kind,
		CaseInsensitive: c.Compare.CaseInsensitive,
		VerifyOnMatch:   c.Compare.Verify,
	}, nil
}

// FlatOptions builds the flat-mode options
func (c *Config) FlatOptions() match.FlatOptions {
	return match.FlatOptions{
		FullHash: c.Compare.FullHash,
		Workers:  c.Performance.Workers,
	}
}
