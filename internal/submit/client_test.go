package submit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustrack/internal/models"
	"focustrack/internal/submit"
)

func sampleHistory(n int) []models.Session {
	predicted := int64(90_000)
	sessions := make([]models.Session, n)
	for i := range sessions {
		start := int64(1_700_000_000_000 + i*400_000)
		sessions[i] = models.Session{
			StartTime:         start,
			EndTime:           start + 125_000,
			Duration:          125_000,
			PredictedDuration: &predicted,
			DetectionTime:     start + 125_000,
			Date:              "2026-08-28",
		}
	}
	return sessions
}

func TestSubmitSuccess(t *testing.T) {
	var received models.Batch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(models.Envelope{
			Success: true,
			Message: "sessions processed",
			Data: &models.EnvelopeData{
				SessionsProcessed: len(received.Sessions),
				ParticipantID:     received.ParticipantID,
			},
		})
	}))
	defer srv.Close()

	client := submit.New(srv.URL, "focustrack/test", "1.0")
	count, err := client.Submit(context.Background(), sampleHistory(3), "user_abc123")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.Len(t, received.Sessions, 3)
	assert.Equal(t, "user_abc123", received.ParticipantID)
	assert.Equal(t, "focustrack/test", received.BrowserInfo)
	assert.Equal(t, "1.0", received.ExperimentVersion)
	assert.NotEmpty(t, received.Timestamp)
}

func TestSubmitEmptyHistoryShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := submit.New(srv.URL, "focustrack/test", "1.0")
	_, err := client.Submit(context.Background(), nil, "user_abc123")
	require.ErrorIs(t, err, submit.ErrNoSessions)
	assert.False(t, called, "empty history must not hit the network")
}

func TestSubmitUnsetEndpoint(t *testing.T) {
	client := submit.New("", "focustrack/test", "1.0")
	_, err := client.Submit(context.Background(), sampleHistory(1), "user_abc123")
	require.ErrorIs(t, err, submit.ErrNotConfigured)
}

func TestSubmitPlaceholderEndpoint(t *testing.T) {
	client := submit.New("https://example.com/"+submit.PlaceholderEndpoint, "focustrack/test", "1.0")
	_, err := client.Submit(context.Background(), sampleHistory(1), "user_abc123")
	require.ErrorIs(t, err, submit.ErrNotConfigured)
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := submit.New(srv.URL, "focustrack/test", "1.0")
	_, err := client.Submit(context.Background(), sampleHistory(2), "user_abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSubmitApplicationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Envelope{
			Success: false,
			Message: "invalid data format: participantId required",
		})
	}))
	defer srv.Close()

	client := submit.New(srv.URL, "focustrack/test", "1.0")
	_, err := client.Submit(context.Background(), sampleHistory(2), "user_abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "participantId required")
}

func TestSubmitUnreachableEndpoint(t *testing.T) {
	client := submit.New("http://127.0.0.1:1/nowhere", "focustrack/test", "1.0")
	_, err := client.Submit(context.Background(), sampleHistory(1), "user_abc123")
	require.Error(t, err)
}
