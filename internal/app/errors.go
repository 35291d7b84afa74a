package app

import (
	"log-report/internal/shared/svcerrors"
)

const (
	codeNoSources            = "APP_1000"
	codeInternalSourceLookup = "APP_9100"
)

// errNoSources returns an error when neither arguments nor the glob pattern name a source.
func errNoSources(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeNoSources, "no access logs to report on", cause)
}

// errInternalSourceLookup returns an error when the log directory cannot be listed.
func errInternalSourceLookup(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalSourceLookup, cause)
}
