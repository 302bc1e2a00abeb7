package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustrack/internal/collector/sqlite"
	"focustrack/internal/models"
)

func TestOpenCreatesSchemaLazily(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "collector.db")

	db, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file was not created")

	var name string
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='sessions'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "sessions", name)
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "collector.db")

	db, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an existing database must not disturb the table.
	db, err = sqlite.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())
}

func TestAppendStoresSecondsAndNulls(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "collector.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := sqlite.NewSessionRepository(db)
	ctx := context.Background()

	predicted := int64(90_000)
	withOptionals := models.Session{
		StartTime:              1_700_000_000_000,
		EndTime:                1_700_000_125_000,
		Duration:               125_000,
		PredictedDuration:      &predicted,
		DetectionTime:          1_700_000_125_000,
		EstimatedFocusDuration: &predicted,
		Date:                   "2026-08-28",
	}
	withoutOptionals := models.Session{
		StartTime:     1_700_000_400_000,
		EndTime:       1_700_000_460_000,
		Duration:      60_000,
		DetectionTime: 1_700_000_460_000,
		Date:          "2026-08-28",
	}
	batch := models.Batch{
		ParticipantID:     "user_abc123",
		BrowserInfo:       "focustrack/test",
		ExperimentVersion: "1.0",
		Timestamp:         "2026-08-28T10:05:00Z",
	}

	id1, err := repo.Append(ctx, withOptionals, batch)
	require.NoError(t, err)
	id2, err := repo.Append(ctx, withoutOptionals, batch)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	var durationSeconds int64
	var predictedSeconds *int64
	err = db.QueryRow(
		"SELECT duration_seconds, predicted_duration_seconds FROM sessions WHERE id = ?", id1,
	).Scan(&durationSeconds, &predictedSeconds)
	require.NoError(t, err)
	assert.Equal(t, int64(125), durationSeconds)
	require.NotNil(t, predictedSeconds)
	assert.Equal(t, int64(90), *predictedSeconds)

	err = db.QueryRow(
		"SELECT duration_seconds, predicted_duration_seconds FROM sessions WHERE id = ?", id2,
	).Scan(&durationSeconds, &predictedSeconds)
	require.NoError(t, err)
	assert.Equal(t, int64(60), durationSeconds)
	assert.Nil(t, predictedSeconds)
}

func TestCount(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "collector.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := sqlite.NewSessionRepository(db)
	ctx := context.Background()

	batch := models.Batch{ParticipantID: "user_abc123", BrowserInfo: "t", ExperimentVersion: "1.0", Timestamp: "now"}
	other := models.Batch{ParticipantID: "user_zzz999", BrowserInfo: "t", ExperimentVersion: "1.0", Timestamp: "now"}
	session := models.Session{StartTime: 1, EndTime: 2, Duration: 1, DetectionTime: 2, Date: "2026-08-28"}

	_, err = repo.Append(ctx, session, batch)
	require.NoError(t, err)
	_, err = repo.Append(ctx, session, batch)
	require.NoError(t, err)
	_, err = repo.Append(ctx, session, other)
	require.NoError(t, err)

	count, err := repo.Count(ctx, "user_abc123")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
