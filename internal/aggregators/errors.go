package aggregators

import (
	"fmt"

	"log-report/internal/shared/svcerrors"
)

const (
	codeMergeInconsistency      = "AGG_9000"
	codeSourceTimeout           = "AGG_9001"
	codeInternalPartialStoreErr = "AGG_9100"
)

// errMergeInconsistency returns an error when merged totals disagree with the merged stats.
// Percentages computed from such a result would be silently wrong, so it is fatal.
func errMergeInconsistency(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvariantError(codeMergeInconsistency, "merged totals do not match url stats", cause)
}

// errSourceTimeout returns an error when a source did not finish within the per-source timeout.
func errSourceTimeout(source string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewSourceReadError(codeSourceTimeout, fmt.Sprintf("source %q timed out", source), cause)
}

// errInternalPartialStoreFailed returns an error when a per-source partial result cannot be persisted.
func errInternalPartialStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalPartialStoreErr, fmt.Errorf("partialResultStoreFailed: %w", cause))
}
