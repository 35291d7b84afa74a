package reports

import (
	"fmt"

	"log-report/internal/shared/svcerrors"
)

const (
	codeEmptyStatistics       = "RPT_9000"
	codeInternalTemplateLoad  = "RPT_9100"
	codeInternalReportPublish = "RPT_9101"
)

// errEmptyStatistics returns an error when a merged url stat has no samples.
func errEmptyStatistics(url string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvariantError(codeEmptyStatistics, fmt.Sprintf("url %q has no samples", url), cause)
}

// errInternalTemplateLoad returns an error when the report template cannot be read.
func errInternalTemplateLoad(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalTemplateLoad, fmt.Errorf("templateLoadFailed: %w", cause))
}

// errInternalReportPublish returns an error when the rendered report cannot be stored.
func errInternalReportPublish(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportPublish, fmt.Errorf("reportPublishFailed: %w", cause))
}
