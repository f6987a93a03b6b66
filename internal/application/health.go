package application

import (
	"context"

	"github.com/jobrunner/tessera/internal/ports/input"
)

// HealthService provides health check functionality.
type HealthService struct {
	recent *RecentLog
}

// NewHealthService creates a new health service.
func NewHealthService(recent *RecentLog) *HealthService {
	return &HealthService{
		recent: recent,
	}
}

// IsHealthy returns true if the service is healthy.
func (s *HealthService) IsHealthy(_ context.Context) bool {
	return true // Basic health check
}

// IsReady returns true if the service is ready to accept events. The
// pipeline holds no warm-up state, so readiness follows liveness.
func (s *HealthService) IsReady(_ context.Context) bool {
	return true
}

// GetHealthDetails returns detailed health information.
func (s *HealthService) GetHealthDetails(_ context.Context) input.HealthDetails {
	details := input.HealthDetails{
		Healthy: true,
		Ready:   true,
		Components: map[string]string{
			"pipeline": "ok",
		},
	}

	if s.recent != nil {
		details.Processed = s.recent.Total()
		if last, ok := s.recent.Last(); ok {
			details.LastOutcome = string(last.Outcome)
		}
	}

	return details
}
