package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"log-report/internal/models"
	"log-report/internal/shared/svcerrors"

	"github.com/go-chi/chi/v5"
)

const codeRunNotFound = "HTTP_4040"

// RunStatusReader exposes the status of the latest report build.
//
//go:generate mockgen -source=run_status_handler.go -destination=./mocks/run_status_handler_mock.go -package=mocks
type RunStatusReader interface {
	// Latest returns false until a build has started.
	Latest() (models.RunStatus, bool)
}

type runStatusHandler struct {
	runs RunStatusReader
}

func NewRunStatusHandler(runs RunStatusReader) AppHttpHandler {
	return &runStatusHandler{runs: runs}
}

// Handle serves GET /runs/latest and GET /runs/{runID}.
func (h *runStatusHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	status, ok := h.runs.Latest()
	if !ok {
		return svcerrors.NewNotFoundError(codeRunNotFound, "no report build has started")
	}
	if runID := chi.URLParam(r, "runID"); runID != "" && runID != status.RunID {
		return svcerrors.NewNotFoundError(codeRunNotFound, fmt.Sprintf("run %q not found", runID))
	}

	w.Header().Set(headerContentType, "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(status)
}
