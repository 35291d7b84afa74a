package aggregators

import (
	"log-report/internal/shared/metrics"
)

var (
	// metricSourceCollectedTotal counts sources handled by the collector, labelled with the
	// error code of failed sources (empty for sources merged into the result).
	metricSourceCollectedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "source_collected_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	// metricMergedURLs is the number of distinct URLs in the last merged result.
	metricMergedURLs = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "merged_urls",
		},
	)
)
