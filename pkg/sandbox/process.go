// Package sandbox rewrites batch SQL scripts so that every table they
// mutate is redirected into a staging schema while tables they only read
// are left alone.
//
// Processing is textual and best effort: statements are split with a
// quote-aware scanner, mutation targets and FROM/JOIN references are found
// with patterns, every distinct table is classified once after the whole
// script has been scanned, and then each statement is rewritten with
// whole-token replacement. Process never fails; unrecognized input is
// passed through.
//
// Tables are identified by the last segment of their dotted name, so
// risk.foo and audit.foo are the same table here.
package sandbox

import (
	"fmt"
	"log/slog"
	"strings"
)

// Default option values.
const (
	DefaultStagingSchema = "ptemp"
	DefaultHistorySuffix = "_dt"
	DefaultStopMarker    = "写入dt表"
)

// Options controls one Process call.
//
// Callers should start from DefaultOptions and change what they need. The
// zero value only fills in the staging schema and history suffix: it adds no
// bootstrap statements, keeps '@' directives and ignores the stop marker.
type Options struct {
	StagingSchema string // schema receiving redirected tables
	HistorySuffix string // key suffix marking write-once history tables
	AddBootstrap  bool   // inject DROP/CREATE LIKE before first use of type1 tables
	// StopMarker, when found, removes its line and everything after it.
	// Empty disables the cut.
	StopMarker      string
	StripDirectives bool // remove lines starting with '@'
	Concurrency     int  // ProcessMany workers; <= 0 means GOMAXPROCS
	Logger          *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		StagingSchema:   DefaultStagingSchema,
		HistorySuffix:   DefaultHistorySuffix,
		AddBootstrap:    true,
		StopMarker:      DefaultStopMarker,
		StripDirectives: true,
	}
}

func (o Options) normalized() Options {
	if o.StagingSchema == "" {
		o.StagingSchema = DefaultStagingSchema
	}
	if o.HistorySuffix == "" {
		o.HistorySuffix = DefaultHistorySuffix
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Result is the outcome of processing one script.
type Result struct {
	Text           string
	Summary        Summary
	Classification *Classification
	Records        []*TableRecord
	Statements     int      // statements read from the input
	Emitted        int      // statements written, bootstrap included
	Staged         []string // type1 keys that received bootstrap statements
	Suppressed     []Statement
	Messages       []string
}

// Process rewrites one script.
func Process(text string, opts Options) *Result {
	opts = opts.normalized()
	log := opts.Logger
	res := &Result{}

	if cut, found := CutAtMarker(text, opts.StopMarker); found {
		text = cut
		res.Messages = append(res.Messages, fmt.Sprintf("found %q marker, removed that line and everything after it", opts.StopMarker))
	}
	if opts.StripDirectives {
		text = StripDirectives(text)
	}

	stmts := Split(text)
	res.Statements = len(stmts)

	registry := NewRegistry()
	for _, s := range stmts {
		registry.RecordReference(Extract(s.Text))
	}
	class := registry.Classify(opts.HistorySuffix)
	res.Classification = class
	res.Records = registry.Records()
	res.Summary = class.Summary()
	res.Messages = append(res.Messages, fmt.Sprintf("detected type1(%d) type2(%d) readonly(%d) history(%d)",
		res.Summary.Type1, res.Summary.Type2, res.Summary.Readonly, res.Summary.History))

	log.Debug("classified script",
		slog.Int("statements", len(stmts)),
		slog.Int("tables", registry.Len()),
		slog.Any("type1", class.Type1),
		slog.Any("type2", class.Type2),
		slog.Any("history", class.History))

	rw := NewRewriter(registry, class, opts.StagingSchema, opts.AddBootstrap)
	var b strings.Builder
	for _, s := range stmts {
		for _, out := range rw.Rewrite(s) {
			b.WriteString(out.Text)
			b.WriteString(";\n")
			res.Emitted++
		}
	}
	res.Text = b.String()
	res.Staged = rw.Staged()
	res.Suppressed = rw.Suppressed()
	for _, s := range res.Suppressed {
		ref := Extract(s.Text)
		res.Messages = append(res.Messages, fmt.Sprintf("removed %s on history table %s", ref.Kind, ref.Target.Key()))
	}

	log.Debug("rewrote script",
		slog.Int("emitted", res.Emitted),
		slog.Any("staged", res.Staged),
		slog.Int("suppressed", len(res.Suppressed)))
	return res
}
