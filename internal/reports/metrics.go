package reports

import (
	"log-report/internal/shared/metrics"
)

var (
	metricReportsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "reports_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	// metricReportRecords is the number of rows in the last published report.
	metricReportRecords = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "records",
		},
	)
)
