package commands

import (
	"strings"

	"github.com/leapstack-labs/ptemp/internal/cli/output"
	"github.com/leapstack-labs/ptemp/pkg/sandbox"
	"github.com/spf13/cobra"
)

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file|url|->",
		Short: "Show how each table in a script would be treated",
		Long: `List every table a script touches with its category:

  history   name ends with the history suffix; its DML is removed
  type2     created and written by the script; moved to the staging schema
  type1     written but never created; moved and bootstrapped with CREATE ... LIKE
  readonly  only read; left alone

Nothing is written.`,
		Example: `  ptemp classify etl/daily.sql
  ptemp classify etl/daily.sql --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			script, err := cc.loadOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := sandbox.Process(script.Text, cc.Options(script.Name))
			return renderClassify(cc.Renderer, output.NewClassifyOutput(script.Name, res))
		},
	}
}

func renderClassify(r *output.Renderer, out output.ClassifyOutput) error {
	if ok, err := r.Structured(out); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(2, out.Name))
		r.Println("")
	} else {
		r.Println(r.Styles().Header1.Render(out.Name))
	}

	if len(out.Tables) == 0 {
		r.Println("no tables found")
		return nil
	}

	rows := make([][]string, 0, len(out.Tables))
	for _, t := range out.Tables {
		category := output.Title(t.Category)
		if !markdown {
			category = r.Styles().Category(t.Category).Render(category)
		}
		rows = append(rows, []string{t.Table, category, strings.Join(t.Spellings, ", "), t.LikeSource})
	}
	r.Table([]string{"table", "category", "spellings", "like"}, rows)

	if markdown {
		r.Println("")
	}
	r.Println(formatSummaryText(r, out.Summary))
	return nil
}
