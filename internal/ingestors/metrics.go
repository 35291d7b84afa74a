package ingestors

import (
	"log-report/internal/shared/metrics"
)

var (
	metricLinesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "lines_total",
		},
		[]string{metrics.FieldOutcome},
	)

	metricSourceAggregatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "source_aggregated_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
