package sassbeautify

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileError records the failure of one file in a batch
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// BatchResult is the outcome of BeautifyFiles. Results and Failures are in
// input order.
type BatchResult struct {
	Stats    ScanStats
	Results  []*Result
	Failures []FileError
	Duration time.Duration
}

// Changed returns the number of files that were rewritten
func (r BatchResult) Changed() int {
	n := 0
	for _, res := range r.Results {
		if res.Changed {
			n++
		}
	}
	return n
}

// Err combines all failures into one error, nil when every file succeeded
func (r BatchResult) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// BeautifyFiles runs the pipeline over paths with at most jobs files in
// flight. A jobs value below one uses the number of CPUs. A failing file
// does not stop the others; only cancelling ctx does.
func (b *Beautifier) BeautifyFiles(ctx context.Context, paths []string, req Request, jobs int) BatchResult {
	started := time.Now()
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	results := make([]*Result, len(paths))
	failures := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	// Each goroutine owns its index of results and failures
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				failures[i] = err
				return nil
			}

			res, err := b.Beautify(gctx, NewFileBuffer(path), req)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := BatchResult{Duration: time.Since(started)}
	for i, path := range paths {
		if failures[i] != nil {
			out.Failures = append(out.Failures, FileError{Path: path, Err: failures[i]})
			continue
		}
		if results[i] != nil {
			out.Results = append(out.Results, results[i])
		}
	}

	b.logger.Debug("batch finished",
		zap.Int("files", len(paths)),
		zap.Int("changed", out.Changed()),
		zap.Int("failed", len(out.Failures)),
		zap.Duration("took", out.Duration))
	return out
}
