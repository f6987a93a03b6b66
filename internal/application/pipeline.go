// Package application contains the application services.
package application

import (
	"archive/zip"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jobrunner/tessera/internal/domain"
	"github.com/jobrunner/tessera/internal/ports/output"
)

// PipelineService runs the download → inspect → convert → upload pipeline
// for a single upload event. It holds no per-invocation state; the storage
// and translator handles are created once per process and reused.
type PipelineService struct {
	source     output.ObjectStorage
	dest       output.ObjectStorage
	translator output.VectorTranslator
	metrics    output.MetricsCollector
	recent     *RecentLog
	logger     *slog.Logger
	opts       domain.ConversionOptions
	scratchDir string
}

// PipelineConfig holds configuration for the pipeline service.
type PipelineConfig struct {
	ScratchDir string // Base directory for per-invocation scratch space
}

// NewPipelineService creates a new pipeline service.
func NewPipelineService(
	source output.ObjectStorage,
	dest output.ObjectStorage,
	translator output.VectorTranslator,
	metrics output.MetricsCollector,
	recent *RecentLog,
	logger *slog.Logger,
	cfg PipelineConfig,
) *PipelineService {
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}

	return &PipelineService{
		source:     source,
		dest:       dest,
		translator: translator,
		metrics:    metrics,
		recent:     recent,
		logger:     logger,
		opts:       domain.DefaultConversionOptions(),
		scratchDir: cfg.ScratchDir,
	}
}

// Process runs one pipeline invocation. Every failure up to and including
// the conversion step is absorbed: it is logged, recorded in the result and
// returned with a nil error. Only an upload failure is returned as an error
// so the triggering collaborator's own retry policy can apply.
func (s *PipelineService) Process(ctx context.Context, event domain.UploadEvent) (domain.Result, error) {
	start := time.Now()

	result := domain.Result{
		Object: event.Name,
		Bucket: event.Bucket,
	}

	if err := event.Validate(); err != nil {
		result.Outcome = domain.OutcomeSkipped
		result.Detail = err.Error()
		s.logger.Warn("invalid event, skipping", "error", err)
		return s.finish(result, start), nil
	}

	if !event.IsArchive() {
		result.Outcome = domain.OutcomeSkipped
		result.Detail = domain.ErrNotArchive.Error()
		s.logger.Info("object is not a zip archive, skipping", "object", event.Name)
		return s.finish(result, start), nil
	}

	s.logger.Info("processing archive", "object", event.Name, "bucket", event.Bucket)

	// Per-invocation scratch namespace, derived from the object name.
	// Removed on every exit path, so neither the downloaded archive nor the
	// produced output survives the invocation.
	scratch := filepath.Join(s.scratchDir, "tessera-"+event.Stem())
	if err := os.MkdirAll(scratch, 0750); err != nil {
		result.Outcome = domain.OutcomeArchiveFailed
		result.Detail = err.Error()
		s.logger.Error("failed to create scratch directory", "path", scratch, "error", err)
		return s.finish(result, start), nil
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			s.logger.Warn("failed to remove scratch directory", "path", scratch, "error", err)
		}
	}()

	// Locate the convertible source inside the archive.
	src, err := s.locate(ctx, event, scratch)
	if err != nil {
		if err == domain.ErrNoSourceFound {
			result.Outcome = domain.OutcomeNoSourceFound
			s.logger.Info("no convertible source (geodatabase, shapefile, csv) found",
				"object", event.Name)
		} else {
			result.Outcome = domain.OutcomeArchiveFailed
			result.Detail = err.Error()
			s.logger.Error("failed to inspect archive", "object", event.Name, "error", err)
		}
		return s.finish(result, start), nil
	}

	result.SourceKind = src.Kind
	result.SourcePath = domain.VSIZipPath(s.source.VSIPrefix(), event.Name, src.Entry)
	s.logger.Info("source located",
		"object", event.Name,
		"kind", src.Kind,
		"source_path", result.SourcePath,
	)

	// Convert to GeoParquet on scratch storage.
	outputPath := filepath.Join(scratch, event.OutputName())
	if err := s.convert(ctx, result.SourcePath, outputPath); err != nil {
		result.Outcome = domain.OutcomeConversionFailed
		result.Detail = err.Error()
		s.logger.Error("conversion failed", "source", result.SourcePath, "error", err)
		return s.finish(result, start), nil
	}

	// Publish to the destination store.
	if err := s.publish(ctx, event.OutputName(), outputPath); err != nil {
		result.Outcome = domain.OutcomeUploadFailed
		result.Detail = err.Error()
		s.logger.Error("upload failed", "output", event.OutputName(), "error", err)
		return s.finish(result, start), err
	}

	result.Outcome = domain.OutcomeDone
	result.Output = event.OutputName()
	s.logger.Info("conversion complete",
		"object", event.Name,
		"output", event.OutputName(),
		"duration", time.Since(start),
	)
	return s.finish(result, start), nil
}

// locate downloads the archive into scratch, enumerates its entries and
// selects the highest-priority convertible source.
func (s *PipelineService) locate(ctx context.Context, event domain.UploadEvent, scratch string) (domain.Source, error) {
	archivePath := filepath.Join(scratch, filepath.Base(event.Name))

	downloadStart := time.Now()
	err := s.source.Download(ctx, event.Name, archivePath)
	s.metrics.ObserveStorageDuration("download", time.Since(downloadStart))
	s.metrics.IncStorageOperations("download", err == nil)
	if err != nil {
		return domain.Source{}, &domain.StorageError{Operation: "download", Key: event.Name, Err: err}
	}

	entries, err := listArchiveEntries(archivePath)
	if err != nil {
		return domain.Source{}, &domain.ArchiveError{Object: event.Name, Err: err}
	}

	src, ok := domain.SelectSource(entries)
	if !ok {
		return domain.Source{}, domain.ErrNoSourceFound
	}
	return src, nil
}

// convert invokes the external translation capability and re-verifies that
// an output file actually exists before trusting the call.
func (s *PipelineService) convert(ctx context.Context, sourcePath, outputPath string) error {
	if err := s.translator.Translate(ctx, sourcePath, outputPath, s.opts); err != nil {
		return &domain.ConversionError{Source: sourcePath, Err: err}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return domain.ErrOutputMissing
	}
	return nil
}

// publish uploads the produced file to the destination location.
func (s *PipelineService) publish(ctx context.Context, key, outputPath string) error {
	uploadStart := time.Now()
	err := s.dest.Upload(ctx, key, outputPath)
	s.metrics.ObserveStorageDuration("upload", time.Since(uploadStart))
	s.metrics.IncStorageOperations("upload", err == nil)
	if err != nil {
		return &domain.StorageError{Operation: "upload", Key: key, Err: err}
	}
	return nil
}

// finish stamps the result, records it and updates metrics.
func (s *PipelineService) finish(result domain.Result, start time.Time) domain.Result {
	result.Duration = time.Since(start)
	result.CompletedAt = time.Now()

	s.metrics.IncConversion(string(result.Outcome))
	s.metrics.ObserveConversionDuration(result.Duration)
	if s.recent != nil {
		s.recent.Record(result)
	}
	return result
}

// listArchiveEntries returns the names of all entries in a zip archive,
// including directory entries.
func listArchiveEntries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	entries := make([]string, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, f.Name)
	}
	return entries, nil
}
