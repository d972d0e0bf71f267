package output

import "github.com/leapstack-labs/ptemp/pkg/sandbox"

// TableInfo describes one classified table.
type TableInfo struct {
	Table      string   `json:"table" yaml:"table"`
	Category   string   `json:"category" yaml:"category"`
	Spellings  []string `json:"spellings" yaml:"spellings"`
	Created    bool     `json:"created" yaml:"created"`
	Mutated    bool     `json:"mutated" yaml:"mutated"`
	Read       bool     `json:"read" yaml:"read"`
	LikeSource string   `json:"like_source,omitempty" yaml:"like_source,omitempty"`
}

// ScriptOutput is the result of rewriting one script.
type ScriptOutput struct {
	Name       string          `json:"name" yaml:"name"`
	Output     string          `json:"output,omitempty" yaml:"output,omitempty"`
	Statements int             `json:"statements" yaml:"statements"`
	Emitted    int             `json:"emitted" yaml:"emitted"`
	Summary    sandbox.Summary `json:"summary" yaml:"summary"`
	Staged     []string        `json:"staged,omitempty" yaml:"staged,omitempty"`
	Messages   []string        `json:"messages,omitempty" yaml:"messages,omitempty"`
	SQL        string          `json:"sql,omitempty" yaml:"sql,omitempty"`
}

// BatchOutput is the result of a batch run.
type BatchOutput struct {
	RunID   string          `json:"run_id" yaml:"run_id"`
	Scripts []ScriptOutput  `json:"scripts" yaml:"scripts"`
	Summary sandbox.Summary `json:"summary" yaml:"summary"`
}

// ClassifyOutput lists the classification of one script.
type ClassifyOutput struct {
	Name    string          `json:"name" yaml:"name"`
	Tables  []TableInfo     `json:"tables" yaml:"tables"`
	Summary sandbox.Summary `json:"summary" yaml:"summary"`
}

// NewScriptOutput converts an engine result.
func NewScriptOutput(name string, res *sandbox.Result) ScriptOutput {
	return ScriptOutput{
		Name:       name,
		Statements: res.Statements,
		Emitted:    res.Emitted,
		Summary:    res.Summary,
		Staged:     res.Staged,
		Messages:   res.Messages,
	}
}

// NewClassifyOutput converts an engine result into a per-table listing,
// in first-seen order.
func NewClassifyOutput(name string, res *sandbox.Result) ClassifyOutput {
	out := ClassifyOutput{Name: name, Summary: res.Summary, Tables: []TableInfo{}}
	for _, rec := range res.Records {
		cat := res.Classification.Of(rec.Key)
		info := TableInfo{
			Table:     rec.Key,
			Category:  cat.String(),
			Spellings: rec.Spellings(),
			Created:   rec.Created,
			Mutated:   rec.Mutated,
			Read:      rec.Read,
		}
		if cat == sandbox.CategoryType1 {
			info.LikeSource = rec.Representative
		}
		out.Tables = append(out.Tables, info)
	}
	return out
}
