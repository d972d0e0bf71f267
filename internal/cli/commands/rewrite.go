package commands

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/ptemp/internal/cli/output"
	"github.com/leapstack-labs/ptemp/internal/source"
	"github.com/leapstack-labs/ptemp/pkg/sandbox"
	"github.com/spf13/cobra"
)

type rewriteOptions struct {
	dest     string
	toStdout bool
	watch    bool
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand() *cobra.Command {
	opts := &rewriteOptions{}

	cmd := &cobra.Command{
		Use:   "rewrite <file|url|->",
		Short: "Redirect the tables a script writes into the staging schema",
		Long: `Rewrite one SQL script so that every table it creates, inserts into,
deletes from, truncates or drops lives in the staging schema instead.

Tables that are only read keep their names. DML against history tables
(names ending with the history suffix) is removed. Tables the script only
writes to get a DROP TABLE IF EXISTS / CREATE TABLE ... LIKE pair before
their first use, so the staged copy starts with the production layout.

The result is written next to the input as <name>_processed.sql unless
--dest, --out-dir or --stdout says otherwise. "-" reads from stdin and
prints the result.`,
		Example: `  # Write daily_processed.sql next to daily.sql
  ptemp rewrite etl/daily.sql

  # Use another staging schema and print the result
  ptemp rewrite etl/daily.sql --staging-schema sandbox --stdout

  # Read from a pipe
  cat daily.sql | ptemp rewrite - > daily_sandbox.sql

  # Re-run whenever the file changes
  ptemp rewrite etl/daily.sql --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return runWatch(cmd, args[0], opts)
			}
			return runRewrite(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dest, "dest", "d", "", "Output location (default: <name>_processed.sql)")
	cmd.Flags().BoolVar(&opts.toStdout, "stdout", false, "Print the rewritten script instead of writing it")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Rewrite again whenever the file changes")

	return cmd
}

func runRewrite(cmd *cobra.Command, location string, opts *rewriteOptions) error {
	cc := NewCommandContext(cmd)
	_, err := rewriteOnce(cmd.Context(), cc, location, opts)
	return err
}

// rewriteOnce loads, processes, stores and reports one script.
func rewriteOnce(ctx context.Context, cc *CommandContext, location string, opts *rewriteOptions) (*sandbox.Result, error) {
	script, err := cc.loadOne(ctx, location)
	if err != nil {
		return nil, err
	}

	res := sandbox.Process(script.Text, cc.Options(script.Name))
	out := output.NewScriptOutput(script.Name, res)

	if location == stdinLocation || opts.toStdout {
		out.SQL = res.Text
		return res, renderScript(cc.Renderer, out, true)
	}

	dest := opts.dest
	if dest == "" {
		dest = source.OutputLocation(script.Name, cc.Cfg.OutDir, cc.Cfg.Suffix)
	}
	if dest == script.Name {
		return nil, fmt.Errorf("refusing to overwrite input %s, set --suffix or --dest", script.Name)
	}
	if err := cc.Source.Write(ctx, dest, []byte(res.Text)); err != nil {
		return nil, err
	}
	cc.Logger.Info("rewrote script",
		"input", script.Name,
		"output", dest,
		"statements", res.Statements,
		"emitted", res.Emitted)

	out.Output = dest
	return res, renderScript(cc.Renderer, out, false)
}
