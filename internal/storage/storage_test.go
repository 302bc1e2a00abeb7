package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustrack/internal/models"
	"focustrack/internal/storage"
)

func TestLoadMissingFileReturnsZeroState(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	state, err := store.Load()
	require.NoError(t, err)
	assert.False(t, state.IsRunning)
	assert.Empty(t, state.SessionData)
	assert.Empty(t, state.ParticipantID)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	predicted := int64(90_000)
	estimated := int64(100_000)
	state := models.TrackerState{
		IsRunning:         true,
		StartTime:         1_700_000_000_000,
		PredictedDuration: &predicted,
		ParticipantID:     "user_abc123",
		SessionData: []models.Session{{
			StartTime:              1_699_999_000_000,
			EndTime:                1_699_999_125_000,
			Duration:               125_000,
			PredictedDuration:      &predicted,
			DetectionTime:          1_699_999_125_000,
			EstimatedFocusDuration: &estimated,
			Date:                   "2026-08-28",
		}},
	}

	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(models.TrackerState{
		IsRunning:     true,
		StartTime:     1_700_000_000_000,
		ParticipantID: "user_abc123",
	}))
	require.NoError(t, store.Save(models.TrackerState{
		ParticipantID: "user_abc123",
	}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.False(t, loaded.IsRunning)
	assert.Zero(t, loaded.StartTime)
	assert.Equal(t, "user_abc123", loaded.ParticipantID)
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := storage.New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0644))
	_, err = store.Load()
	require.Error(t, err)
}
