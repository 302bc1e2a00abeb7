package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"focustrack/internal/models"
)

// Phase is the tracker's position in the session lifecycle.
type Phase int

const (
	Idle Phase = iota
	AwaitingPrediction
	Running
	AwaitingEstimation
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingPrediction:
		return "awaiting-prediction"
	case Running:
		return "running"
	case AwaitingEstimation:
		return "awaiting-estimation"
	}
	return "unknown"
}

// Store is the persistence capability injected into the tracker. A write
// completes before the tracker method that issued it returns, so a later
// Load always observes it.
type Store interface {
	Load() (models.TrackerState, error)
	Save(models.TrackerState) error
}

// ErrZeroPrediction blocks the start transition when the user confirms a
// prediction of zero minutes and zero seconds.
var ErrZeroPrediction = errors.New("prediction must be greater than zero")

// Tracker owns the session lifecycle: Idle -> AwaitingPrediction -> Running
// -> AwaitingEstimation -> Idle. At most one session is in progress at a
// time; transitions requested from an incompatible phase are no-ops.
type Tracker struct {
	store Store
	now   func() time.Time

	phase         Phase
	startTime     int64
	predicted     *int64
	actualEnd     int64
	history       []models.Session
	participantID string
}

// New loads persisted state from the store and reconstructs the tracker.
// If the persisted state shows a session in progress, the tracker comes up
// Running with the original start time and prediction reattached. A missing
// participant ID is generated and persisted immediately.
func New(store Store, now func() time.Time) (*Tracker, error) {
	if now == nil {
		now = time.Now
	}

	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load tracker state: %w", err)
	}

	t := &Tracker{
		store:         store,
		now:           now,
		phase:         Idle,
		history:       state.SessionData,
		participantID: state.ParticipantID,
	}

	if state.IsRunning && state.StartTime > 0 {
		t.phase = Running
		t.startTime = state.StartTime
		t.predicted = state.PredictedDuration
	}

	if t.participantID == "" {
		t.participantID = newParticipantID()
		if err := t.persist(); err != nil {
			return nil, fmt.Errorf("persist participant id: %w", err)
		}
	}

	return t, nil
}

func newParticipantID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "user_" + raw[:12]
}

// Phase returns the current lifecycle phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// ParticipantID returns the stable per-installation identifier.
func (t *Tracker) ParticipantID() string {
	return t.participantID
}

// RequestStart opens the prediction step. It has no timer side effects and
// is a no-op unless the tracker is idle.
func (t *Tracker) RequestStart() bool {
	if t.phase != Idle {
		return false
	}
	t.phase = AwaitingPrediction
	return true
}

// CancelPrediction dismisses the prediction step without mutating state.
func (t *Tracker) CancelPrediction() {
	if t.phase == AwaitingPrediction {
		t.phase = Idle
	}
}

// ConfirmPrediction records the user's predicted duration and starts the
// session. Negative inputs clamp to zero; a zero/zero prediction blocks the
// transition with ErrZeroPrediction and the tracker stays in
// AwaitingPrediction.
func (t *Tracker) ConfirmPrediction(minutes, seconds int) error {
	if t.phase != AwaitingPrediction {
		return nil
	}
	if minutes < 0 {
		minutes = 0
	}
	if seconds < 0 {
		seconds = 0
	}
	if minutes == 0 && seconds == 0 {
		return ErrZeroPrediction
	}

	predicted := int64(minutes)*60_000 + int64(seconds)*1_000
	return t.begin(&predicted)
}

// SkipPrediction starts the session without a prediction.
func (t *Tracker) SkipPrediction() error {
	if t.phase != AwaitingPrediction {
		return nil
	}
	return t.begin(nil)
}

func (t *Tracker) begin(predicted *int64) error {
	t.startTime = t.now().UnixMilli()
	t.predicted = predicted
	t.phase = Running

	if err := t.persist(); err != nil {
		return fmt.Errorf("persist running state: %w", err)
	}
	return nil
}

// Elapsed reports the time since the session started. It is recomputed from
// the clock on every call, so the display tick never drifts or queues.
func (t *Tracker) Elapsed() int64 {
	if t.phase != Running && t.phase != AwaitingEstimation {
		return 0
	}
	if t.phase == AwaitingEstimation {
		return t.actualEnd - t.startTime
	}
	return t.now().UnixMilli() - t.startTime
}

// RequestStop captures the end of the session immediately and opens the
// estimation step. The recorded duration reflects this moment, not when the
// estimation is later confirmed. Returns the elapsed milliseconds for
// display, and false when no session is running.
func (t *Tracker) RequestStop() (int64, bool) {
	if t.phase != Running {
		return 0, false
	}
	t.actualEnd = t.now().UnixMilli()
	t.phase = AwaitingEstimation
	return t.actualEnd - t.startTime, true
}

// ConfirmEstimation finalizes the session with the user's self-reported
// focus duration. Negative inputs clamp to zero; blank input is the caller's
// zero. The estimate is stored as given even when it exceeds the actual
// duration.
func (t *Tracker) ConfirmEstimation(minutes, seconds int) (models.Session, error) {
	if t.phase != AwaitingEstimation {
		return models.Session{}, nil
	}
	if minutes < 0 {
		minutes = 0
	}
	if seconds < 0 {
		seconds = 0
	}
	estimated := int64(minutes)*60_000 + int64(seconds)*1_000
	return t.finalize(&estimated)
}

// SkipEstimation finalizes the session with no estimate recorded.
func (t *Tracker) SkipEstimation() (models.Session, error) {
	if t.phase != AwaitingEstimation {
		return models.Session{}, nil
	}
	return t.finalize(nil)
}

func (t *Tracker) finalize(estimated *int64) (models.Session, error) {
	session := models.Session{
		StartTime:              t.startTime,
		EndTime:                t.actualEnd,
		Duration:               t.actualEnd - t.startTime,
		PredictedDuration:      t.predicted,
		DetectionTime:          t.actualEnd,
		EstimatedFocusDuration: estimated,
		Date:                   models.DateOf(t.actualEnd),
	}

	t.history = append(t.history, session)
	t.phase = Idle
	t.startTime = 0
	t.predicted = nil
	t.actualEnd = 0

	if err := t.persist(); err != nil {
		return session, fmt.Errorf("persist completed session: %w", err)
	}
	return session, nil
}

// History returns a copy of the completed, unsubmitted sessions in
// completion order.
func (t *Tracker) History() []models.Session {
	out := make([]models.Session, len(t.history))
	copy(out, t.history)
	return out
}

// ClearHistory drains the unsubmitted history. Call it only after the
// collector has confirmed a successful submission.
func (t *Tracker) ClearHistory() error {
	t.history = nil
	if err := t.persist(); err != nil {
		return fmt.Errorf("persist cleared history: %w", err)
	}
	return nil
}

// SessionsToday counts completed sessions dated today.
func (t *Tracker) SessionsToday() int {
	today := t.now().Format("2006-01-02")
	count := 0
	for _, s := range t.history {
		if s.Date == today {
			count++
		}
	}
	return count
}

func (t *Tracker) persist() error {
	state := models.TrackerState{
		IsRunning:     t.phase == Running || t.phase == AwaitingEstimation,
		SessionData:   t.history,
		ParticipantID: t.participantID,
	}
	if state.IsRunning {
		state.StartTime = t.startTime
		state.PredictedDuration = t.predicted
	}
	return t.store.Save(state)
}
