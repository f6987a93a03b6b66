package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jobrunner/tessera/internal/domain"
	"github.com/jobrunner/tessera/internal/ports/output"
)

// ErrRateLimited is returned when the sweep API rate limit is exceeded.
var ErrRateLimited = errors.New("rate limit exceeded")

// SweepResult contains the result of a sweep operation.
type SweepResult struct {
	ArchivesScanned int       `json:"archives_scanned"`
	Converted       int       `json:"converted"`
	Failed          int       `json:"failed"`
	SweptAt         time.Time `json:"swept_at"`
	NextScheduledAt time.Time `json:"next_scheduled_at,omitempty"`
}

// SweepService periodically reconciles the source store against the
// destination store: any archive whose output object is missing is run
// through the pipeline as an ordinary single event. It recovers uploads
// whose trigger notification was lost; it is not a batch trigger handler.
type SweepService struct {
	pipeline     *PipelineService
	source       output.ObjectStorage
	dest         output.ObjectStorage
	metrics      output.MetricsCollector
	sourceBucket string
	interval     time.Duration
	logger       *slog.Logger

	// Lifecycle management
	stopCh chan struct{}
	wg     sync.WaitGroup

	// Rate limiting for API triggers
	lastAPISweep time.Time
	apiMutex     sync.Mutex

	// Prevents concurrent sweep operations
	sweepOpMutex sync.Mutex

	// Track next scheduled sweep for reporting
	nextSweep time.Time
	sweepMu   sync.RWMutex
}

// NewSweepService creates a new sweep service.
func NewSweepService(
	pipeline *PipelineService,
	source output.ObjectStorage,
	dest output.ObjectStorage,
	metrics output.MetricsCollector,
	sourceBucket string,
	interval time.Duration,
	logger *slog.Logger,
) *SweepService {
	return &SweepService{
		pipeline:     pipeline,
		source:       source,
		dest:         dest,
		metrics:      metrics,
		sourceBucket: sourceBucket,
		interval:     interval,
		logger:       logger,
		stopCh:       make(chan struct{}),
		// Initialize to past time to allow immediate first API call
		lastAPISweep: time.Now().Add(-31 * time.Second),
	}
}

// Start begins the periodic sweep scheduler.
func (s *SweepService) Start(ctx context.Context) {
	s.logger.Info("starting sweep service", "interval", s.interval)

	s.wg.Add(1)
	go s.run(ctx)
}

// run is the main sweep loop.
func (s *SweepService) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Set initial next sweep time
	s.setNextSweep(time.Now().Add(s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweep service stopped: context canceled")
			return
		case <-s.stopCh:
			s.logger.Info("sweep service stopped")
			return
		case <-ticker.C:
			s.logger.Debug("scheduled sweep triggered")
			if _, err := s.doSweep(ctx); err != nil {
				s.logger.Error("sweep failed", "error", err)
			}
			s.setNextSweep(time.Now().Add(s.interval))
		}
	}
}

// Stop gracefully stops the sweep service.
func (s *SweepService) Stop() {
	s.logger.Info("stopping sweep service")
	close(s.stopCh)
	s.wg.Wait()
}

// TriggerSweep manually triggers a sweep operation with rate limiting.
// Returns ErrRateLimited if called more than 2 times per minute.
func (s *SweepService) TriggerSweep(ctx context.Context) (SweepResult, error) {
	s.apiMutex.Lock()
	defer s.apiMutex.Unlock()

	// Rate limit: 30 seconds cooldown (allows ~2 requests per minute)
	if time.Since(s.lastAPISweep) < 30*time.Second {
		return SweepResult{}, ErrRateLimited
	}
	s.lastAPISweep = time.Now()

	return s.doSweep(ctx)
}

// doSweep lists source archives, finds those without a published output and
// processes them sequentially.
func (s *SweepService) doSweep(ctx context.Context) (SweepResult, error) {
	// Prevent concurrent sweep operations
	s.sweepOpMutex.Lock()
	defer s.sweepOpMutex.Unlock()

	backlog, scanned, err := s.findBacklog(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	s.metrics.SetSweepBacklog(len(backlog))

	result := SweepResult{
		ArchivesScanned: scanned,
		SweptAt:         time.Now(),
		NextScheduledAt: s.getNextSweep(),
	}

	for _, key := range backlog {
		event := domain.UploadEvent{Bucket: s.sourceBucket, Name: key}

		res, err := s.pipeline.Process(ctx, event)
		if err != nil || !res.Outcome.Succeeded() {
			result.Failed++
			continue
		}
		result.Converted++
	}

	s.metrics.SetSweepBacklog(result.Failed)
	s.logger.Info("sweep completed",
		"scanned", result.ArchivesScanned,
		"converted", result.Converted,
		"failed", result.Failed,
	)
	return result, nil
}

// findBacklog returns the keys of all source archives whose destination
// object does not exist, plus the number of archives scanned.
func (s *SweepService) findBacklog(ctx context.Context) ([]string, int, error) {
	objects, err := s.source.List(ctx)
	s.metrics.IncStorageOperations("list", err == nil)
	if err != nil {
		return nil, 0, &domain.StorageError{Operation: "list", Err: err}
	}

	var backlog []string
	scanned := 0
	for _, obj := range objects {
		if !strings.HasSuffix(strings.ToLower(obj.Key), domain.ArchiveExtension) {
			continue
		}
		scanned++

		event := domain.UploadEvent{Name: obj.Key}
		exists, err := s.dest.Exists(ctx, event.OutputName())
		if err != nil {
			s.logger.Warn("failed to check destination object",
				"key", event.OutputName(), "error", err)
			continue
		}
		if !exists {
			backlog = append(backlog, obj.Key)
		}
	}

	return backlog, scanned, nil
}

// setNextSweep updates the next scheduled sweep time.
func (s *SweepService) setNextSweep(t time.Time) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	s.nextSweep = t
}

// getNextSweep returns the next scheduled sweep time.
func (s *SweepService) getNextSweep() time.Time {
	s.sweepMu.RLock()
	defer s.sweepMu.RUnlock()
	return s.nextSweep
}

// Interval returns the sweep interval.
func (s *SweepService) Interval() time.Duration {
	return s.interval
}
