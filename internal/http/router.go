package http

import (
	"net/http"

	"log-report/internal/shared/loggers"
	"log-report/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates the diagnostics router served next to a report build.
func NewRouter(runs RunStatusReader, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	runStatusHandler := errorHandlingAdapter(NewRunStatusHandler(runs))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/runs/latest", runStatusHandler)
	router.Get("/runs/{runID}", runStatusHandler)
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
