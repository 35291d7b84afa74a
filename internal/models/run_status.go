package models

import "time"

type RunState string

const (
	RunStateRunning   RunState = "running"
	RunStateSucceeded RunState = "succeeded"
	RunStateFailed    RunState = "failed"
)

// RunStatus describes one report build.
//
// Example JSON:
//
//	{
//	  "runId": "01JAB3Q6V0Q8N3W0F5K5Z1X2Y3",
//	  "state": "succeeded",
//	  "startedAt": "2017-06-30T03:50:22Z",
//	  "finishedAt": "2017-06-30T03:50:31Z",
//	  "sources": 10,
//	  "failedSources": ["nginx-access-ui.log-20170629.gz"],
//	  "reportKey": "report-2017.06.30.html"
//	}
type RunStatus struct {
	RunID         string     `json:"runId"`
	State         RunState   `json:"state"`
	StartedAt     time.Time  `json:"startedAt"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
	Sources       int        `json:"sources"`
	FailedSources []string   `json:"failedSources,omitempty"`
	ReportKey     string     `json:"reportKey,omitempty"`
	ErrorCode     string     `json:"errorCode,omitempty"`
}
