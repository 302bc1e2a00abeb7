package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"focustrack/internal/models"
)

// SessionRepository appends submitted sessions as rows.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Append inserts one row for the session and returns its generated
// identifier, of the form sess_<participantId>_<startMillis>_<suffix>.
// Duration columns are stored in whole seconds; absent optional values
// become NULL.
func (r *SessionRepository) Append(ctx context.Context, session models.Session, batch models.Batch) (string, error) {
	id := sessionID(session, batch.ParticipantID)

	var predicted, estimated any
	if session.PredictedDuration != nil {
		predicted = *session.PredictedDuration / 1000
	}
	if session.EstimatedFocusDuration != nil {
		estimated = *session.EstimatedFocusDuration / 1000
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, received_at, date, start_time, end_time,
		 duration_seconds, predicted_duration_seconds, detection_time,
		 estimated_focus_seconds, participant_id, browser_info,
		 experiment_version, submission_timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), session.Date,
		session.StartTime, session.EndTime,
		session.Duration/1000, predicted, session.DetectionTime,
		estimated, batch.ParticipantID, batch.BrowserInfo,
		batch.ExperimentVersion, batch.Timestamp,
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	return id, nil
}

// Count returns the number of stored sessions for a participant, or all
// sessions when participantID is empty.
func (r *SessionRepository) Count(ctx context.Context, participantID string) (int, error) {
	var count int
	var err error
	if participantID == "" {
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sessions WHERE participant_id = ?", participantID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

func sessionID(session models.Session, participantID string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:5]
	return fmt.Sprintf("sess_%s_%d_%s", participantID, session.StartTime, suffix)
}
