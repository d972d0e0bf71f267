package config

import (
	"fmt"
	"regexp"
	"strings"
)

var schemaPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validOutputs = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !schemaPattern.MatchString(c.StagingSchema) {
		return fmt.Errorf("staging_schema %q must be a plain identifier (letters, digits, underscore)", c.StagingSchema)
	}
	if strings.TrimSpace(c.HistorySuffix) == "" {
		return fmt.Errorf("history_suffix is required")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	if c.Suffix == "" && c.OutDir == "" {
		return fmt.Errorf("suffix may only be empty when out_dir is set, otherwise inputs would be overwritten")
	}
	output := strings.ToLower(c.OutputFormat)
	for _, o := range validOutputs {
		if output == o {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (valid: %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
}
