package aggregators

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"log-report/internal/ingestors"
	"log-report/internal/models"
	"log-report/internal/shared/loggers"
	"log-report/internal/shared/metrics"
	"log-report/internal/shared/svcerrors"
	"log-report/internal/shared/timers"
	"log-report/internal/sources"
	"log-report/internal/stores"
)

// CollectorOptions configures a ParallelCollector.
type CollectorOptions struct {
	Workers       int           // size of the worker pool, <= 0 means runtime.NumCPU()
	SourceTimeout time.Duration // per-source limit, 0 disables it
	PartialStore  stores.PartialResultStore
}

type ParallelCollector interface {
	// Collect aggregates every source concurrently and merges the file-local results
	// into one result. A source that fails contributes nothing and is reported in
	// Collection.Failures. Only invariant violations and cancellation return an error.
	Collect(ctx context.Context, srcs []sources.Source) (*models.Collection, error)
}

type parallelCollector struct {
	fileAggregator ingestors.FileAggregator
	workers        int
	sourceTimeout  time.Duration
	partialStore   stores.PartialResultStore
}

func NewParallelCollector(fileAggregator ingestors.FileAggregator, opts CollectorOptions) ParallelCollector {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &parallelCollector{
		fileAggregator: fileAggregator,
		workers:        workers,
		sourceTimeout:  opts.SourceTimeout,
		partialStore:   opts.PartialStore,
	}
}

type taskOutcome struct {
	result *models.AggregationResult
	err    error
}

func (c *parallelCollector) Collect(ctx context.Context, srcs []sources.Source) (*models.Collection, error) {
	defer timers.Track(ctx, "collect")()

	// One slot per source. Each worker writes only the slots of the tasks it ran,
	// and slots are read after wg.Wait, so merge order is source order.
	outcomes := make([]taskOutcome, len(srcs))
	tasks := make(chan int)

	var wg sync.WaitGroup
	for workerID := 0; workerID < min(c.workers, len(srcs)); workerID++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range tasks {
				outcomes[index] = c.runTask(ctx, workerID, srcs[index])
			}
		}()
	}

dispatch:
	for index := range srcs {
		select {
		case <-ctx.Done():
			break dispatch
		case tasks <- index:
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collection cancelled: %w", err)
	}

	collection := &models.Collection{}
	partials := make([]*models.AggregationResult, 0, len(srcs))
	for index, outcome := range outcomes {
		if outcome.err != nil {
			collection.Failures = append(collection.Failures, &models.SourceFailure{Source: srcs[index].Name(), Err: outcome.err})
			continue
		}
		partials = append(partials, outcome.result)
	}

	merged := MergeResults(partials...)
	if err := VerifyTotals(merged); err != nil {
		return nil, errMergeInconsistency(err)
	}
	metricMergedURLs.Set(float64(len(merged.Stats)))

	loggers.Ctx(ctx).Info().
		Int("sources", len(srcs)).
		Int("failed_sources", len(collection.Failures)).
		Int("urls", len(merged.Stats)).
		Int64("total_requests", merged.Totals.TotalRequests).
		Msg("collected sources")

	collection.Result = merged
	return collection, nil
}

// runTask aggregates one source. A source that exceeds the timeout is abandoned: its
// goroutine is left to finish on its own and its result is dropped.
func (c *parallelCollector) runTask(ctx context.Context, workerID int, source sources.Source) taskOutcome {
	logger := loggers.Ctx(ctx).With().
		Str(loggers.FieldSource, source.Name()).
		Int(loggers.FieldWorkerID, workerID).
		Logger()

	var taskCtx context.Context
	var cancel context.CancelFunc
	if c.sourceTimeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, c.sourceTimeout)
	} else {
		taskCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()
	taskCtx = logger.WithContext(taskCtx)

	done := make(chan taskOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Bytes(loggers.FieldErrorStack, debug.Stack()).
					Msgf("file aggregator panic recovered: %v", r)

				// Convert panic value to error
				var panicErr error
				if err, ok := r.(error); ok {
					panicErr = err
				} else {
					panicErr = fmt.Errorf("%v", r)
				}
				done <- taskOutcome{err: svcerrors.NewInternalErrorPanic(panicErr)}
			}
		}()

		result, err := c.fileAggregator.Aggregate(taskCtx, source)
		done <- taskOutcome{result: result, err: err}
	}()

	var outcome taskOutcome
	select {
	case outcome = <-done:
	case <-taskCtx.Done():
		outcome = taskOutcome{err: taskCtx.Err()}
	}

	if outcome.err == nil && outcome.result == nil {
		outcome.result = models.NewAggregationResult(source.Name())
	}
	if outcome.err != nil {
		if errors.Is(outcome.err, context.DeadlineExceeded) && ctx.Err() == nil {
			outcome.err = errSourceTimeout(source.Name(), outcome.err)
		}
		// the whole collection is discarded on cancel, so no source is blamed for it
		if ctx.Err() == nil {
			c.reportFailure(logger, outcome.err)
		}
		return taskOutcome{err: outcome.err}
	}

	metricSourceCollectedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	if c.partialStore != nil {
		if err := c.partialStore.Put(ctx, outcome.result); err != nil {
			svcErr := errInternalPartialStoreFailed(err)
			logger.Warn().Err(svcErr.Cause).Str(loggers.FieldErrorCode, svcErr.Code).Msg("failed to keep partial result")
		}
	}
	return outcome
}

func (c *parallelCollector) reportFailure(logger loggers.Logger, err error) {
	svcErr, ok := svcerrors.AsServiceError(err)
	if !ok {
		svcErr = svcerrors.NewInternalErrorUndefined(err)
	}
	metricSourceCollectedTotal.WithLabelValues(svcErr.Code).Inc()
	logger.Error().
		Err(err).
		Str(loggers.FieldErrorCode, svcErr.Code).
		Msg("source failed, excluded from report")
}
