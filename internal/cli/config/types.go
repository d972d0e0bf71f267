// Package config provides configuration management for the ptemp CLI.
//
// Values are layered, lowest to highest precedence: built-in defaults,
// the ptemp.yaml file, PTEMP_* environment variables, and command-line
// flags.
package config

import (
	"log/slog"

	"github.com/leapstack-labs/ptemp/pkg/sandbox"
)

// Config holds all CLI configuration options.
type Config struct {
	StagingSchema   string `koanf:"staging_schema"`
	HistorySuffix   string `koanf:"history_suffix"`
	AddBootstrap    bool   `koanf:"add_bootstrap"`
	StopMarker      string `koanf:"stop_marker"`
	StripDirectives bool   `koanf:"strip_directives"`
	Concurrency     int    `koanf:"concurrency"`
	OutDir          string `koanf:"out_dir"` // empty writes next to each input
	Suffix          string `koanf:"suffix"`  // appended to the output file stem
	OutputFormat    string `koanf:"output"`
	Verbose         bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultSuffix = "_processed"
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		StagingSchema:   sandbox.DefaultStagingSchema,
		HistorySuffix:   sandbox.DefaultHistorySuffix,
		AddBootstrap:    true,
		StopMarker:      sandbox.DefaultStopMarker,
		StripDirectives: true,
		Suffix:          DefaultSuffix,
		OutputFormat:    DefaultOutput,
	}
}

// SandboxOptions converts the configuration into engine options.
func (c *Config) SandboxOptions(logger *slog.Logger) sandbox.Options {
	return sandbox.Options{
		StagingSchema:   c.StagingSchema,
		HistorySuffix:   c.HistorySuffix,
		AddBootstrap:    c.AddBootstrap,
		StopMarker:      c.StopMarker,
		StripDirectives: c.StripDirectives,
		Concurrency:     c.Concurrency,
		Logger:          logger,
	}
}
