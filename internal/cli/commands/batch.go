package commands

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/leapstack-labs/ptemp/internal/cli/output"
	"github.com/leapstack-labs/ptemp/internal/source"
	"github.com/leapstack-labs/ptemp/pkg/sandbox"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type batchOptions struct {
	report string
	dryRun bool
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <path|dir|url>...",
		Short: "Rewrite many scripts concurrently",
		Long: `Rewrite every given script, and every *.sql file directly inside each
given directory. Scripts are independent of each other: a table written in
one script has no effect on how another script is rewritten.

Inputs whose name already ends in the output suffix (daily_processed.sql
with the default --suffix) are skipped, so running batch twice over the
same directory does not rewrite earlier results.

Each run gets a run ID that appears in the logs and in the report.`,
		Example: `  # Rewrite a directory into ./sandbox with 4 workers
  ptemp batch etl/ --out-dir sandbox -j 4

  # Only report what would change
  ptemp batch etl/*.sql --dry-run --output json

  # Keep a yaml report
  ptemp batch etl/ --report ptemp-report.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.report, "report", "", "Write a yaml report of the run to this location")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Process the scripts without writing any output")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string, opts *batchOptions) error {
	ctx := cmd.Context()
	cc := NewCommandContext(cmd)
	runID := uuid.NewString()
	logger := cc.Logger.With("run_id", runID)

	loaded, err := cc.Source.LoadAll(ctx, args)
	if err != nil {
		return err
	}
	scripts := loaded[:0]
	for _, s := range loaded {
		if source.IsOutput(s.Name, cc.Cfg.Suffix) {
			logger.Debug("skipping earlier output", "script", s.Name)
			continue
		}
		scripts = append(scripts, s)
	}
	if len(scripts) == 0 {
		return errors.New("no scripts found")
	}

	sandboxOpts := cc.Cfg.SandboxOptions(logger)
	batch, err := sandbox.ProcessMany(ctx, scripts, sandboxOpts)
	if err != nil {
		return fmt.Errorf("batch cancelled: %w", err)
	}

	out := output.BatchOutput{RunID: runID, Summary: batch.Summary}
	taken := make(map[string]string, len(batch.Results))
	for _, res := range batch.Results {
		so := output.NewScriptOutput(res.Name, res.Result)
		so.Output = source.OutputLocation(res.Name, cc.Cfg.OutDir, cc.Cfg.Suffix)
		if so.Output == res.Name {
			return fmt.Errorf("refusing to overwrite input %s, set --suffix", res.Name)
		}
		if prev, ok := taken[so.Output]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, res.Name, so.Output)
		}
		taken[so.Output] = res.Name
		out.Scripts = append(out.Scripts, so)
	}

	if !opts.dryRun {
		for i, res := range batch.Results {
			if err := cc.Source.Write(ctx, out.Scripts[i].Output, []byte(res.Text)); err != nil {
				return err
			}
		}
	}
	logger.Info("batch finished",
		"scripts", len(out.Scripts),
		"dry_run", opts.dryRun,
		"type1", out.Summary.Type1,
		"type2", out.Summary.Type2,
		"readonly", out.Summary.Readonly,
		"history", out.Summary.History)

	if opts.report != "" {
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := cc.Source.Write(ctx, opts.report, data); err != nil {
			return err
		}
	}

	return renderBatch(cc.Renderer, out, opts)
}

func renderBatch(r *output.Renderer, out output.BatchOutput, opts *batchOptions) error {
	if ok, err := r.Structured(out); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(2, "Batch "+out.RunID))
		r.Println("")
	} else {
		r.Println(r.Styles().Header1.Render("Batch") + " " + r.Styles().Muted.Render(out.RunID))
	}

	r.Table(summaryHeader(), summaryRows(out.Scripts, out.Summary))

	for _, s := range out.Scripts {
		for _, m := range s.Messages {
			if markdown {
				r.Println(fmt.Sprintf("- %s: %s", s.Name, m))
			} else {
				r.Println(r.Styles().Muted.Render(s.Name + ": " + m))
			}
		}
	}

	if opts.dryRun {
		r.Warning("dry run, nothing written")
	} else {
		r.Success(fmt.Sprintf("wrote %d scripts", len(out.Scripts)))
	}
	if opts.report != "" {
		r.Success("report written to " + opts.report)
	}
	return nil
}
