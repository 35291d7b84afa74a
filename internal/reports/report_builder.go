package reports

import (
	"context"
	"time"

	"log-report/internal/models"
	"log-report/internal/shared/loggers"
	"log-report/internal/shared/metrics"
	"log-report/internal/shared/svcerrors"
	"log-report/internal/shared/timers"
	"log-report/internal/stores"
)

// Report describes a published report.
type Report struct {
	Key     string
	Records []ReportRecord
}

type ReportBuilder interface {
	// Build renders the merged result and publishes it under the report name.
	Build(ctx context.Context, result *models.AggregationResult) (*Report, error)
}

type reportBuilder struct {
	reportStore stores.ReportStore
	template    string
	outputName  string
	now         func() time.Time
}

// NewReportBuilder returns a builder rendering into template. An empty outputName
// selects the dated default name.
func NewReportBuilder(reportStore stores.ReportStore, template string, outputName string) ReportBuilder {
	return &reportBuilder{
		reportStore: reportStore,
		template:    template,
		outputName:  outputName,
		now:         time.Now,
	}
}

func (b *reportBuilder) Build(ctx context.Context, result *models.AggregationResult) (*Report, error) {
	defer timers.Track(ctx, "build_report")()

	report, err := b.build(ctx, result)
	if err != nil {
		svcErr, ok := svcerrors.AsServiceError(err)
		if !ok {
			svcErr = svcerrors.NewInternalErrorUndefined(err)
		}
		metricReportsTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, err
	}

	metricReportsTotal.WithLabelValues(metrics.ValueNoError).Inc()
	metricReportRecords.Set(float64(len(report.Records)))
	loggers.Ctx(ctx).Info().
		Str("report", report.Key).
		Int("records", len(report.Records)).
		Msg("report published")
	return report, nil
}

func (b *reportBuilder) build(ctx context.Context, result *models.AggregationResult) (*Report, error) {
	records, err := BuildRecords(result)
	if err != nil {
		return nil, err
	}

	content, err := RenderHTML(b.template, records)
	if err != nil {
		return nil, errInternalReportPublish(err)
	}

	key, err := b.reportStore.Put(ctx, OutputName(b.outputName, b.now()), content)
	if err != nil {
		return nil, errInternalReportPublish(err)
	}
	return &Report{Key: key, Records: records}, nil
}
