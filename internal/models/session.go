package models

import (
	"time"
)

// Session is one completed focus-tracking interval. All duration and
// timestamp fields are milliseconds since the Unix epoch, matching the
// submission wire format.
type Session struct {
	StartTime              int64  `json:"startTime"`
	EndTime                int64  `json:"endTime"`
	Duration               int64  `json:"duration"`
	PredictedDuration      *int64 `json:"predictedDuration"`      // nil if the prediction step was skipped
	DetectionTime          int64  `json:"detectionTime"`          // when the user signaled loss of focus; equals EndTime
	EstimatedFocusDuration *int64 `json:"estimatedFocusDuration"` // nil if the estimation step was skipped
	Date                   string `json:"date"`                   // YYYY-MM-DD, derived from completion time
}

// TrackerState is the persisted tracker snapshot. It survives UI teardown:
// an in-progress session is reconstructed from IsRunning/StartTime on the
// next launch, and SessionData holds completed sessions until a submission
// succeeds.
type TrackerState struct {
	IsRunning         bool      `json:"isRunning"`
	StartTime         int64     `json:"startTime,omitempty"`
	PredictedDuration *int64    `json:"predictedDuration,omitempty"`
	SessionData       []Session `json:"sessionData"`
	ParticipantID     string    `json:"participantId"`
}

// DateOf formats a millisecond timestamp as a local calendar date.
func DateOf(millis int64) string {
	return time.UnixMilli(millis).Format("2006-01-02")
}

// Batch is the submission request payload: the unsubmitted history plus
// metadata about the submitting client.
type Batch struct {
	Sessions          []Session `json:"sessions"`
	ParticipantID     string    `json:"participantId"`
	BrowserInfo       string    `json:"browserInfo"`
	ExperimentVersion string    `json:"experimentVersion"`
	Timestamp         string    `json:"timestamp"`
}

// Envelope is the collector's response body for both submissions and
// health checks.
type Envelope struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Timestamp string        `json:"timestamp"`
	Data      *EnvelopeData `json:"data,omitempty"`
}

type EnvelopeData struct {
	SessionsProcessed int    `json:"sessionsProcessed,omitempty"`
	ParticipantID     string `json:"participantId,omitempty"`
	Version           string `json:"version,omitempty"`
	Status            string `json:"status,omitempty"`
}
