package timers

import (
	"context"
	"time"

	"log-report/internal/shared/loggers"
	"log-report/internal/shared/metrics"
)

var metricTimerDuration = metrics.NewHistogramVec(
	metrics.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.SubTimer,
		Name:      "duration_seconds",
		Buckets:   metrics.DefBuckets,
	},
	[]string{"timer"},
)

// now is swapped in tests.
var now = time.Now

// Track starts a scoped timer named name and returns the function that stops it.
// Stopping logs the elapsed time with the context logger and records it in the
// timer histogram. Intended use:
//
//	defer timers.Track(ctx, "collect")()
func Track(ctx context.Context, name string) func() time.Duration {
	start := now()
	return func() time.Duration {
		elapsed := now().Sub(start)
		metricTimerDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		loggers.Ctx(ctx).Info().
			Str(loggers.FieldTimer, name).
			Int64(loggers.FieldDuration, elapsed.Milliseconds()).
			Msgf("%s executed in %s", name, elapsed)
		return elapsed
	}
}
