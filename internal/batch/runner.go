package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/gitrdm/gopdr/pkg/bench"
	"github.com/gitrdm/gopdr/pkg/pdr"
)

// JobResult is one benchmark file's outcome.
type JobResult struct {
	Path          string
	CorrelationID uuid.UUID
	Result        pdr.Result
	Err           error
}

// RunDir runs every *.yaml file in dir through pdr.Check concurrently,
// using a Pool of size concurrency (<=0 defaults to runtime.NumCPU via
// NewPool). Results are returned in filename order regardless of
// completion order; a *multierror.Error aggregates every file's genuine
// failure - parse errors, a run that never resolved - so one malformed
// benchmark never hides the rest (spec.md §7's batch-error-aggregation
// requirement). A conclusive Refuted verdict is not a failure: it is
// reported via JobResult.Result like Proved is, never folded into the
// aggregated error.
func RunDir(ctx context.Context, dir string, concurrency int, logger hclog.Logger, opts ...pdr.Option) ([]JobResult, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	paths, err := discoverBenchmarks(dir)
	if err != nil {
		return nil, err
	}

	pool := NewPool(concurrency)
	defer pool.Shutdown()

	results := make([]JobResult, len(paths))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs *multierror.Error

	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		task := func() {
			defer wg.Done()
			jr := runOne(ctx, path, logger, opts...)
			results[i] = jr
			if jr.Err != nil && !errors.Is(jr.Err, pdr.ErrPropertyRefuted) {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, jr.Err))
				mu.Unlock()
			}
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			mu.Lock()
			results[i] = JobResult{Path: path, Err: err}
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			mu.Unlock()
		}
	}
	wg.Wait()

	return results, errs.ErrorOrNil()
}

func runOne(ctx context.Context, path string, logger hclog.Logger, opts ...pdr.Option) JobResult {
	id := uuid.New()
	runLogger := logger.With("correlation_id", id.String(), "benchmark", path)

	spec, err := bench.ParseFile(path)
	if err != nil {
		return JobResult{Path: path, CorrelationID: id, Err: err}
	}

	runOpts := append([]pdr.Option{pdr.WithLogger(runLogger)}, opts...)
	result, err := pdr.Check(ctx, spec.Init, spec.Trans, spec.Prop, spec.Vars, runOpts...)
	return JobResult{Path: path, CorrelationID: id, Result: result, Err: err}
}

func discoverBenchmarks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
