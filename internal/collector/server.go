// Package collector implements the session collection service: it accepts
// submitted batches over HTTP and appends one row per session to the
// database.
package collector

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"focustrack/internal/models"
)

// Appender is the row store behind the collector.
type Appender interface {
	Append(ctx context.Context, session models.Session, batch models.Batch) (string, error)
}

// Server holds the collector's HTTP handlers.
type Server struct {
	repo Appender
}

func NewServer(repo Appender) *Server {
	return &Server{repo: repo}
}

// RegisterRoutes sets up the collector routes on the given mux. A bare GET
// is the health check; submissions POST the batch to the same path.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", s.HandleHealth)
	mux.HandleFunc("POST /", s.HandleSubmit)
}

// HandleHealth responds with a static "service active" envelope.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, models.Envelope{
		Success:   true,
		Message:   "focustrack collector is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data: &models.EnvelopeData{
			Version: "1.0",
			Status:  "active",
		},
	})
}

// HandleSubmit validates the batch shape and appends one row per session.
// Shape failures are reported in the envelope with success:false; a storage
// failure aborts the batch with a 500.
func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var batch models.Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body: expected a JSON batch")
		return
	}

	if batch.Sessions == nil {
		writeFailure(w, http.StatusBadRequest, "invalid data format: sessions array required")
		return
	}
	if batch.ParticipantID == "" {
		writeFailure(w, http.StatusBadRequest, "invalid data format: participantId required")
		return
	}

	for _, session := range batch.Sessions {
		id, err := s.repo.Append(r.Context(), session, batch)
		if err != nil {
			slog.Error("append session", "participant", batch.ParticipantID, "error", err)
			writeFailure(w, http.StatusInternalServerError, "failed to store sessions")
			return
		}
		slog.Debug("stored session", "id", id, "date", session.Date)
	}

	slog.Info("processed batch",
		"participant", batch.ParticipantID,
		"sessions", len(batch.Sessions),
	)

	writeEnvelope(w, http.StatusOK, models.Envelope{
		Success:   true,
		Message:   "sessions processed",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data: &models.EnvelopeData{
			SessionsProcessed: len(batch.Sessions),
			ParticipantID:     batch.ParticipantID,
		},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, envelope models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, models.Envelope{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
