// Package input defines the primary/driving ports of the application.
package input

import (
	"context"

	"github.com/jobrunner/tessera/internal/domain"
)

// ConversionPipeline defines the primary port for processing upload events.
type ConversionPipeline interface {
	// Process runs one invocation of the conversion pipeline for the given
	// event. The returned error is non-nil only when publishing the output
	// failed; all other failures are absorbed into the Result's outcome.
	Process(ctx context.Context, event domain.UploadEvent) (domain.Result, error)
}

// HealthChecker defines the primary port for health checks.
type HealthChecker interface {
	// IsHealthy returns true if the service is healthy.
	IsHealthy(ctx context.Context) bool

	// IsReady returns true if the service is ready to accept events.
	IsReady(ctx context.Context) bool

	// GetHealthDetails returns detailed health information.
	GetHealthDetails(ctx context.Context) HealthDetails
}

// HealthDetails contains detailed health information.
type HealthDetails struct {
	Healthy     bool              // Overall health status
	Ready       bool              // Ready to accept events
	Processed   int               // Invocations recorded since start
	LastOutcome string            // Outcome of the most recent invocation
	Components  map[string]string // Component statuses
}
