// Package batch drives the pulse pipeline over a set of recording files.
// Recordings are independent, so they are loaded and analysed in parallel;
// outcomes always come back in input order.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/pulse.report/internal/fsutil"
	"github.com/banshee-data/pulse.report/internal/monitoring"
	"github.com/banshee-data/pulse.report/internal/pulse"
	"github.com/banshee-data/pulse.report/internal/recording"
)

// Outcome pairs a loaded recording with its analysis.
type Outcome struct {
	Recording recording.Recording
	Result    pulse.Result
}

// Sink consumes outcomes after analysis, e.g. to persist or chart them.
// Sinks are called sequentially in input order.
type Sink interface {
	Consume(ctx context.Context, o Outcome) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, o Outcome) error

// Consume calls f(ctx, o).
func (f SinkFunc) Consume(ctx context.Context, o Outcome) error { return f(ctx, o) }

// Options controls a batch run.
type Options struct {
	// Workers bounds concurrent recordings. Zero means runtime.NumCPU().
	Workers int
	// Sinks receive every outcome once all recordings are analysed.
	Sinks []Sink
}

// Run loads and analyses every file in paths. The first load error cancels
// outstanding work and is returned; no sink is called in that case.
func Run(ctx context.Context, fsys fsutil.FileSystem, paths []string, params pulse.Params, opts Options) ([]Outcome, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	outcomes := make([]Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := recording.Load(fsys, path)
			if err != nil {
				return err
			}
			// each goroutine owns outcomes[i]
			outcomes[i] = Outcome{Recording: rec, Result: pulse.Analyse(rec.Samples, params)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid := 0
	for _, o := range outcomes {
		if o.Result.Valid() {
			valid++
		}
	}
	monitoring.Logf("analysed %d recordings (%d valid) with %d workers in %v",
		len(outcomes), valid, workers, time.Since(start).Round(time.Millisecond))

	for _, sink := range opts.Sinks {
		for _, o := range outcomes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := sink.Consume(ctx, o); err != nil {
				return nil, fmt.Errorf("%s: %w", o.Recording.Name, err)
			}
		}
	}
	return outcomes, nil
}
