package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/ptemp/internal/cli/output"
	"github.com/leapstack-labs/ptemp/pkg/sandbox"
)

var summaryCategories = []string{"type1", "type2", "readonly", "history"}

func summaryValues(s sandbox.Summary) []int {
	return []int{s.Type1, s.Type2, s.Readonly, s.History}
}

// renderScript prints the outcome of one rewrite. With printSQL the script
// itself goes to standard output unchanged and the messages go to the
// diagnostic writer, so the command can sit in a pipe.
func renderScript(r *output.Renderer, out output.ScriptOutput, printSQL bool) error {
	if ok, err := r.Structured(out); ok {
		return err
	}

	if out.Emitted == 0 {
		r.Warning(fmt.Sprintf("%s produced no statements", out.Name))
	}
	if printSQL {
		r.Printf("%s", out.SQL)
		for _, m := range out.Messages {
			_, _ = fmt.Fprintln(r.ErrWriter(), r.Styles().Muted.Render("-- "+m))
		}
		return nil
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		renderScriptMarkdown(r, out)
		return nil
	}
	renderScriptText(r, out)
	return nil
}

func renderScriptText(r *output.Renderer, out output.ScriptOutput) {
	s := r.Styles()
	if out.Output != "" {
		r.Success(fmt.Sprintf("%s -> %s", out.Name, out.Output))
	}
	r.Println("  " + formatSummaryText(r, out.Summary))
	if len(out.Staged) > 0 {
		r.Println("  " + s.Muted.Render("bootstrapped: "+strings.Join(out.Staged, ", ")))
	}
	for _, m := range out.Messages {
		r.Println("  " + s.Muted.Render(m))
	}
}

func renderScriptMarkdown(r *output.Renderer, out output.ScriptOutput) {
	r.Println(output.FormatHeader(2, out.Name))
	r.Println("")
	if out.Output != "" {
		r.Println(output.FormatKeyValue("output", out.Output))
	}
	r.Println(output.FormatKeyValue("statements", fmt.Sprintf("%d in, %d out", out.Statements, out.Emitted)))
	for i, c := range summaryCategories {
		r.Println(output.FormatKeyValue(c, summaryValues(out.Summary)[i]))
	}
	if len(out.Staged) > 0 {
		r.Println(output.FormatKeyValue("bootstrapped", strings.Join(out.Staged, ", ")))
	}
	if len(out.Messages) > 0 {
		r.Println("")
		for _, m := range out.Messages {
			r.Println("- " + m)
		}
	}
}

func formatSummaryText(r *output.Renderer, sum sandbox.Summary) string {
	parts := make([]string, len(summaryCategories))
	for i, c := range summaryCategories {
		parts[i] = r.Styles().Category(c).Render(c) + " " + strconv.Itoa(summaryValues(sum)[i])
	}
	return strings.Join(parts, "  ")
}

// summaryRows builds one table row per script plus a total row.
func summaryRows(scripts []output.ScriptOutput, total sandbox.Summary) [][]string {
	rows := make([][]string, 0, len(scripts)+1)
	for _, s := range scripts {
		rows = append(rows, summaryRow(s.Name, s.Output, s.Summary))
	}
	return append(rows, summaryRow("total", "", total))
}

func summaryRow(name, dest string, sum sandbox.Summary) []string {
	row := []string{name, dest}
	for _, v := range summaryValues(sum) {
		row = append(row, strconv.Itoa(v))
	}
	return row
}

func summaryHeader() []string {
	header := []string{"script", "output"}
	for _, c := range summaryCategories {
		header = append(header, output.Title(c))
	}
	return header
}
