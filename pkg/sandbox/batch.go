package sandbox

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Script is one named input to ProcessMany.
type Script struct {
	Name string
	Text string
}

// ScriptResult pairs a script name with its result.
type ScriptResult struct {
	Name string
	*Result
}

// BatchResult holds per-script results in input order and their summed
// summary.
type BatchResult struct {
	Results []ScriptResult
	Summary Summary
}

// ProcessMany processes every script independently. Scripts share no
// state, so they run on up to opts.Concurrency workers. The only error is
// the context's: once ctx is done, scripts not yet started are abandoned.
func ProcessMany(ctx context.Context, scripts []Script, opts Options) (*BatchResult, error) {
	opts = opts.normalized()
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]ScriptResult, len(scripts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, sc := range scripts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o := opts
			o.Logger = opts.Logger.With(slog.String("script", sc.Name))
			results[i] = ScriptResult{Name: sc.Name, Result: Process(sc.Text, o)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchResult{Results: results}
	for _, r := range results {
		batch.Summary = batch.Summary.Add(r.Summary)
	}
	return batch, nil
}
