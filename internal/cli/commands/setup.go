// Package commands implements the ptemp subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/ptemp/internal/cli/config"
	"github.com/leapstack-labs/ptemp/internal/cli/output"
	"github.com/leapstack-labs/ptemp/internal/source"
	"github.com/leapstack-labs/ptemp/pkg/sandbox"
	"github.com/spf13/cobra"
)

// stdinLocation reads the script from standard input.
const stdinLocation = "-"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Source   *source.Loader

	stdin io.Reader
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Source:   source.New(),
		stdin:    cmd.InOrStdin(),
	}
}

// getConfig returns the current configuration, or the defaults when the
// command runs outside the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// Options returns engine options for one script.
func (c *CommandContext) Options(name string) sandbox.Options {
	return c.Cfg.SandboxOptions(c.Logger.With(slog.String("script", name)))
}

// loadOne reads a single script. A directory is rejected.
func (c *CommandContext) loadOne(ctx context.Context, location string) (sandbox.Script, error) {
	if location == stdinLocation {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return sandbox.Script{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return sandbox.Script{Name: stdinLocation, Text: string(data)}, nil
	}

	scripts, err := c.Source.Load(ctx, location)
	if err != nil {
		return sandbox.Script{}, err
	}
	if len(scripts) != 1 || scripts[0].Name != location {
		return sandbox.Script{}, fmt.Errorf("%s is a directory, use batch", location)
	}
	return scripts[0], nil
}
