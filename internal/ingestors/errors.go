package ingestors

import (
	"fmt"

	"log-report/internal/shared/svcerrors"
)

// FileAggregator errors
const (
	codeSourceOpenFailed       = "ING_9000"
	codeSourceDecompressFailed = "ING_9001"
	codeSourceReadFailed       = "ING_9002"
)

// errSourceOpenFailed returns an error when a source cannot be opened.
func errSourceOpenFailed(source string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewSourceReadError(codeSourceOpenFailed, fmt.Sprintf("failed to open source %q", source), cause)
}

// errSourceDecompressFailed returns an error when a source is not a valid gzip stream.
func errSourceDecompressFailed(source string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewSourceReadError(codeSourceDecompressFailed, fmt.Sprintf("failed to decompress source %q", source), cause)
}

// errSourceReadFailed returns an error when reading lines from a source fails midway.
func errSourceReadFailed(source string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewSourceReadError(codeSourceReadFailed, fmt.Sprintf("failed to read source %q", source), cause)
}
