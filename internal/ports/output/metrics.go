package output

import "time"

// MetricsCollector defines the secondary port for metrics collection.
type MetricsCollector interface {
	// IncConversion increments the conversion counter for the given outcome.
	IncConversion(outcome string)

	// ObserveConversionDuration records the wall time of an invocation.
	ObserveConversionDuration(duration time.Duration)

	// IncStorageOperations increments the storage operation counter.
	IncStorageOperations(operation string, success bool)

	// ObserveStorageDuration records storage operation duration.
	ObserveStorageDuration(operation string, duration time.Duration)

	// SetSweepBacklog sets the number of archives awaiting conversion.
	SetSweepBacklog(count int)
}

// NoOpMetrics is a no-op implementation of MetricsCollector.
type NoOpMetrics struct{}

// IncConversion implements MetricsCollector.
func (n *NoOpMetrics) IncConversion(_ string) {}

// ObserveConversionDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveConversionDuration(_ time.Duration) {}

// IncStorageOperations implements MetricsCollector.
func (n *NoOpMetrics) IncStorageOperations(_ string, _ bool) {}

// ObserveStorageDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}

// SetSweepBacklog implements MetricsCollector.
func (n *NoOpMetrics) SetSweepBacklog(_ int) {}
