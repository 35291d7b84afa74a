package http

import (
	"net/http"

	"log-report/internal/shared/svcerrors"

	"github.com/go-chi/chi/v5/middleware"
)

// appResponseWriter wraps http.ResponseWriter to expose the status and error code to middlewares.
type appResponseWriter struct {
	middleware.WrapResponseWriter
	svcError *svcerrors.ServiceError
}

func newAppResponseWriter(w http.ResponseWriter, protoMajor int) *appResponseWriter {
	return &appResponseWriter{
		WrapResponseWriter: middleware.NewWrapResponseWriter(w, protoMajor),
	}
}

func (w *appResponseWriter) SetServiceError(svcError *svcerrors.ServiceError) {
	w.svcError = svcError
}

func (w *appResponseWriter) ErrorCode() string {
	if w.svcError != nil {
		return w.svcError.Code
	}
	return ""
}

// statusOrOK returns the written status, or 200 when the handler wrote none.
func statusOrOK(w http.ResponseWriter) int {
	if appWriter, ok := w.(*appResponseWriter); ok && appWriter.Status() != 0 {
		return appWriter.Status()
	}
	return http.StatusOK
}
