package analyze

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/loadlens/internal/loader"
	"github.com/nao1215/loadlens/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of analyzing one result file in a batch.
// Exactly one of Summary and Err is set.
type BatchResult struct {
	// Path is the analyzed result file path.
	Path string

	// Summary is the analysis outcome on success.
	Summary *model.Summary

	// Err is the load failure, if any. Analysis itself never fails.
	Err error
}

// BatchProcessor analyzes multiple result files concurrently.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each file gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
type BatchProcessor struct {
	// analyzer performs the per-file analysis. Analyzer is stateless, so
	// a single instance is shared across goroutines.
	analyzer *Analyzer

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// mu guards callback invocations so writers never interleave.
	mu sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor using the given Analyzer.
func NewBatchProcessor(analyzer *Analyzer, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch loads and analyzes all paths, respecting the concurrency
// limit and context cancellation. Results keep the order of the input
// paths; a failed load is recorded in its slot, not returned as an error.
// The error return indicates cancellation only.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(paths))
	err := bp.run(ctx, paths, func(result BatchResult, index int) {
		results[index] = result
	})
	return results, err
}

// ProcessBatchWithCallback analyzes all paths and calls the callback for
// each completed file. Callbacks are serialized internally, so the
// callback may write to shared output without its own locking. Callback
// order follows completion, not input order.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(result BatchResult, index int),
) error {
	return bp.run(ctx, paths, func(result BatchResult, index int) {
		bp.mu.Lock()
		defer bp.mu.Unlock()
		callback(result, index)
	})
}

// run executes the batch, delivering each result through deliver.
func (bp *BatchProcessor) run(
	ctx context.Context,
	paths []string,
	deliver func(result BatchResult, index int),
) error {
	bp.logger.Info("starting batch analysis",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := BatchResult{Path: path}

			record, err := loader.Load(path)
			if err != nil {
				bp.logger.Warn("load failed", "file", path, "error", err)
				result.Err = err
			} else {
				result.Summary = bp.analyzer.Analyze(path, record)
			}

			deliver(result, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch analysis complete",
		"total_files", len(paths),
		"elapsed", time.Since(startTime),
	)

	return err
}
