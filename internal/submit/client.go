package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"focustrack/internal/models"
)

// PlaceholderEndpoint is the value shipped in the default config before the
// user points the tracker at a real collector.
const PlaceholderEndpoint = "PASTE_COLLECTOR_URL_HERE"

var (
	// ErrNoSessions means the history was empty; no request was made.
	ErrNoSessions = errors.New("no sessions to send")
	// ErrNotConfigured means the endpoint is unset or still the
	// placeholder; no request was made.
	ErrNotConfigured = errors.New("collector endpoint is not configured")
)

// Client submits session batches to the collector. It applies no timeout of
// its own; the underlying transport's behavior governs, and cancellation is
// only whatever the caller's context carries.
type Client struct {
	endpoint    string
	browserInfo string
	version     string
	httpClient  *http.Client
	now         func() time.Time
}

// New creates a submission client for the given endpoint. browserInfo
// describes the submitting client and rides along in the batch metadata.
func New(endpoint, browserInfo, version string) *Client {
	return &Client{
		endpoint:    endpoint,
		browserInfo: browserInfo,
		version:     version,
		httpClient:  http.DefaultClient,
		now:         time.Now,
	}
}

// Submit sends the full unsubmitted history as one batch and returns the
// number of sessions the collector accepted. On any failure the caller's
// history must be left untouched; only a nil error licenses clearing it.
func (c *Client) Submit(ctx context.Context, history []models.Session, participantID string) (int, error) {
	if len(history) == 0 {
		return 0, ErrNoSessions
	}
	if c.endpoint == "" || strings.Contains(c.endpoint, PlaceholderEndpoint) {
		return 0, ErrNotConfigured
	}

	batch := models.Batch{
		Sessions:          history,
		ParticipantID:     participantID,
		BrowserInfo:       c.browserInfo,
		ExperimentVersion: c.version,
		Timestamp:         c.now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return 0, fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("collector returned status %d", resp.StatusCode)
	}

	var envelope models.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	if !envelope.Success {
		return 0, fmt.Errorf("collector rejected batch: %s", envelope.Message)
	}

	processed := len(history)
	if envelope.Data != nil && envelope.Data.SessionsProcessed > 0 {
		processed = envelope.Data.SessionsProcessed
	}
	return processed, nil
}
