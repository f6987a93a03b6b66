package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobrunner/tessera/internal/application"
	"github.com/jobrunner/tessera/internal/domain"
)

// eventRequest is the upload notification payload. It matches the shape of
// a storage notification: additional fields are accepted and ignored.
type eventRequest struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// eventResponse reports the terminal state of one pipeline invocation.
type eventResponse struct {
	Object  string         `json:"object"`
	Outcome domain.Outcome `json:"outcome"`
	Output  string         `json:"output,omitempty"`
	Detail  string         `json:"detail,omitempty"`
}

// handleEvent processes one upload notification. Handled pipeline failures
// (skip, archive error, no source, conversion error) answer 200 so the
// notifier does not redeliver; only an upload failure answers 500 and
// leaves redelivery to the notifier's policy.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "event is missing the object name")
		return
	}

	if s.sourceBucket != "" && req.Bucket != "" && req.Bucket != s.sourceBucket {
		s.writeError(w, http.StatusBadRequest, "event bucket does not match the configured source bucket")
		return
	}

	event := domain.UploadEvent{Bucket: req.Bucket, Name: req.Name}

	result, err := s.pipeline.Process(r.Context(), event)
	resp := eventResponse{
		Object:  result.Object,
		Outcome: result.Outcome,
		Output:  result.Output,
		Detail:  result.Detail,
	}

	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleConversions returns recent pipeline results, newest first.
func (s *Server) handleConversions(w http.ResponseWriter, _ *http.Request) {
	results := s.recent.List()

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":       s.recent.Total(),
		"conversions": results,
	})
}

// handleSweep manually triggers a reconciliation sweep.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	result, err := s.sweep.TriggerSweep(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrRateLimited) {
			s.writeError(w, http.StatusTooManyRequests, "sweep rate limit exceeded, try again later")
			return
		}
		s.logger.Error("sweep failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "sweep failed")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleHealth returns overall health details.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	details := s.health.GetHealthDetails(r.Context())

	status := "ok"
	code := http.StatusOK
	if !details.Healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	s.writeJSON(w, code, map[string]interface{}{
		"status":       status,
		"processed":    details.Processed,
		"last_outcome": details.LastOutcome,
		"components":   details.Components,
	})
}

// handleLiveness returns liveness status.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if !s.health.IsHealthy(r.Context()) {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadiness returns readiness status.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if !s.health.IsReady(r.Context()) {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, map[string]string{"error": message})
}
