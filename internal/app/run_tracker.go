package app

import (
	"slices"
	"sync"
	"time"

	"log-report/internal/models"
	"log-report/internal/shared/svcerrors"
)

// runTracker holds the status of the latest report build for the diagnostics endpoint.
type runTracker struct {
	mu     sync.RWMutex
	latest *models.RunStatus
	now    func() time.Time
}

func newRunTracker() *runTracker {
	return &runTracker{now: time.Now}
}

func (t *runTracker) start(runID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = &models.RunStatus{
		RunID:     runID,
		State:     models.RunStateRunning,
		StartedAt: t.now(),
	}
}

func (t *runTracker) succeed(collection *models.Collection, reportKey string, sources int) models.RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	finishedAt := t.now()
	t.latest.State = models.RunStateSucceeded
	t.latest.FinishedAt = &finishedAt
	t.latest.Sources = sources
	t.latest.ReportKey = reportKey
	for _, failure := range collection.Failures {
		t.latest.FailedSources = append(t.latest.FailedSources, failure.Source)
	}
	return t.snapshot()
}

func (t *runTracker) fail(err error) models.RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	finishedAt := t.now()
	t.latest.State = models.RunStateFailed
	t.latest.FinishedAt = &finishedAt
	svcErr, ok := svcerrors.AsServiceError(err)
	if !ok {
		svcErr = svcerrors.NewInternalErrorUndefined(err)
	}
	t.latest.ErrorCode = svcErr.Code
	return t.snapshot()
}

// Latest implements http.RunStatusReader.
func (t *runTracker) Latest() (models.RunStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.latest == nil {
		return models.RunStatus{}, false
	}
	return t.snapshot(), true
}

// snapshot copies the latest status so callers never share its slices. Callers hold mu.
func (t *runTracker) snapshot() models.RunStatus {
	status := *t.latest
	status.FailedSources = slices.Clone(t.latest.FailedSources)
	if t.latest.FinishedAt != nil {
		finishedAt := *t.latest.FinishedAt
		status.FinishedAt = &finishedAt
	}
	return status
}
