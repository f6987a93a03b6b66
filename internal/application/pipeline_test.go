package application

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jobrunner/tessera/internal/domain"
	"github.com/jobrunner/tessera/internal/ports/output"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestPipeline(t *testing.T, source *mockStorage, dest *mockStorage, translator *mockTranslator) (*PipelineService, string) {
	t.Helper()

	scratch := t.TempDir()
	recent := NewRecentLog(0)
	svc := NewPipelineService(
		source,
		dest,
		translator,
		&output.NoOpMetrics{},
		recent,
		testLogger(),
		PipelineConfig{ScratchDir: scratch},
	)
	return svc, scratch
}

func TestPipelineProcess_SkipsNonArchive(t *testing.T) {
	source := &mockStorage{}
	dest := &mockStorage{}
	translator := &mockTranslator{}
	svc, _ := newTestPipeline(t, source, dest, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "readme.txt",
	})
	if err != nil {
		t.Fatalf("non-archive objects must not surface an error, got %v", err)
	}
	if result.Outcome != domain.OutcomeSkipped {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeSkipped, result.Outcome)
	}

	// Skipping happens before any storage interaction
	if source.downloads != 0 {
		t.Errorf("expected no downloads for skipped object, got %d", source.downloads)
	}
	if translator.calls != 0 {
		t.Errorf("expected no translation for skipped object, got %d calls", translator.calls)
	}
}

func TestPipelineProcess_SkipsInvalidEvent(t *testing.T) {
	source := &mockStorage{}
	svc, _ := newTestPipeline(t, source, &mockStorage{}, &mockTranslator{})

	result, err := svc.Process(context.Background(), domain.UploadEvent{Bucket: "uploads"})
	if err != nil {
		t.Fatalf("invalid events must not surface an error, got %v", err)
	}
	if result.Outcome != domain.OutcomeSkipped {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeSkipped, result.Outcome)
	}
	if source.downloads != 0 {
		t.Errorf("expected no downloads for invalid event, got %d", source.downloads)
	}
}

func TestPipelineProcess_DownloadFailureAbsorbed(t *testing.T) {
	source := &mockStorage{downloadErr: errors.New("transient storage outage")}
	svc, _ := newTestPipeline(t, source, &mockStorage{}, &mockTranslator{})

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "survey.zip",
	})
	if err != nil {
		t.Fatalf("download failures must be absorbed, got %v", err)
	}
	if result.Outcome != domain.OutcomeArchiveFailed {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeArchiveFailed, result.Outcome)
	}
	if result.Detail == "" {
		t.Error("expected failure detail in result")
	}
}

func TestPipelineProcess_CorruptArchiveAbsorbed(t *testing.T) {
	source := &mockStorage{archiveData: []byte("this is not a zip file")}
	translator := &mockTranslator{}
	svc, _ := newTestPipeline(t, source, &mockStorage{}, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "broken.zip",
	})
	if err != nil {
		t.Fatalf("corrupt archives must be absorbed, got %v", err)
	}
	if result.Outcome != domain.OutcomeArchiveFailed {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeArchiveFailed, result.Outcome)
	}
	if translator.calls != 0 {
		t.Errorf("expected no translation for corrupt archive, got %d calls", translator.calls)
	}
}

func TestPipelineProcess_NoSourceFound(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t, "readme.txt", "style.qml")}
	translator := &mockTranslator{}
	svc, _ := newTestPipeline(t, source, &mockStorage{}, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "docs.zip",
	})
	if err != nil {
		t.Fatalf("archives without a source must be absorbed, got %v", err)
	}
	if result.Outcome != domain.OutcomeNoSourceFound {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeNoSourceFound, result.Outcome)
	}
	if translator.calls != 0 {
		t.Errorf("expected no translation, got %d calls", translator.calls)
	}
}

func TestPipelineProcess_Success(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t, "data/roads.shp", "data/roads.dbf")}
	dest := &mockStorage{}
	translator := &mockTranslator{}
	svc, scratch := newTestPipeline(t, source, dest, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "roads.zip",
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Outcome != domain.OutcomeDone {
		t.Fatalf("expected outcome %s, got %s (detail: %s)", domain.OutcomeDone, result.Outcome, result.Detail)
	}
	if result.SourceKind != domain.SourceShapefile {
		t.Errorf("expected source kind %s, got %s", domain.SourceShapefile, result.SourceKind)
	}
	if result.Output != "roads.parquet" {
		t.Errorf("expected output roads.parquet, got %s", result.Output)
	}

	// The translator reads through the composed virtual-filesystem path
	wantSrc := "/vsizip//vsigs/test-bucket/roads.zip/data/roads.shp"
	if translator.lastSrc != wantSrc {
		t.Errorf("translator src = %q, want %q", translator.lastSrc, wantSrc)
	}
	if translator.lastOpts.Format != "Parquet" {
		t.Errorf("expected Parquet format, got %s", translator.lastOpts.Format)
	}

	// The produced file was uploaded under the derived name
	if dest.uploads != 1 {
		t.Fatalf("expected 1 upload, got %d", dest.uploads)
	}
	if _, ok := dest.uploaded["roads.parquet"]; !ok {
		t.Errorf("expected upload under key roads.parquet, got %v", dest.uploaded)
	}

	// Scratch space for the invocation is removed on exit
	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("reading scratch dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty scratch dir after processing, found %d entries", len(entries))
	}
}

func TestPipelineProcess_GeodatabaseWinsOverCSV(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t,
		"attrs.csv",
		"survey.gdb/",
		"survey.gdb/a00000001.gdbtable",
		"survey.gdb/timestamps",
	)}
	dest := &mockStorage{}
	translator := &mockTranslator{}
	svc, _ := newTestPipeline(t, source, dest, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "survey.zip",
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.SourceKind != domain.SourceGeodatabase {
		t.Errorf("expected source kind %s, got %s", domain.SourceGeodatabase, result.SourceKind)
	}
	if !strings.HasSuffix(translator.lastSrc, "survey.zip/survey.gdb") {
		t.Errorf("translator src = %q, want suffix survey.zip/survey.gdb", translator.lastSrc)
	}
}

func TestPipelineProcess_ConversionFailureAbsorbed(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t, "points.csv")}
	dest := &mockStorage{}
	translator := &mockTranslator{translateErr: errors.New("ogr2ogr exit status 1")}
	svc, scratch := newTestPipeline(t, source, dest, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "points.zip",
	})
	if err != nil {
		t.Fatalf("conversion failures must be absorbed, got %v", err)
	}
	if result.Outcome != domain.OutcomeConversionFailed {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeConversionFailed, result.Outcome)
	}
	if dest.uploads != 0 {
		t.Errorf("expected no upload after conversion failure, got %d", dest.uploads)
	}

	entries, _ := os.ReadDir(scratch)
	if len(entries) != 0 {
		t.Errorf("expected scratch cleanup after conversion failure, found %d entries", len(entries))
	}
}

func TestPipelineProcess_MissingOutputIsConversionFailure(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t, "points.csv")}
	dest := &mockStorage{}
	translator := &mockTranslator{skipOutput: true}
	svc, _ := newTestPipeline(t, source, dest, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "points.zip",
	})
	if err != nil {
		t.Fatalf("missing output must be absorbed, got %v", err)
	}
	if result.Outcome != domain.OutcomeConversionFailed {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeConversionFailed, result.Outcome)
	}
	if !strings.Contains(result.Detail, "no output") {
		t.Errorf("expected missing-output detail, got %q", result.Detail)
	}
	if dest.uploads != 0 {
		t.Errorf("expected no upload without output file, got %d", dest.uploads)
	}
}

func TestPipelineProcess_UploadFailureSurfaces(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t, "points.csv")}
	dest := &mockStorage{uploadErr: errors.New("destination unavailable")}
	translator := &mockTranslator{}
	svc, scratch := newTestPipeline(t, source, dest, translator)

	result, err := svc.Process(context.Background(), domain.UploadEvent{
		Bucket: "uploads",
		Name:   "points.zip",
	})
	if err == nil {
		t.Fatal("upload failures must surface an error so the notifier retries")
	}
	if result.Outcome != domain.OutcomeUploadFailed {
		t.Errorf("expected outcome %s, got %s", domain.OutcomeUploadFailed, result.Outcome)
	}

	// Scratch is removed even when the error propagates
	entries, _ := os.ReadDir(scratch)
	if len(entries) != 0 {
		t.Errorf("expected scratch cleanup after upload failure, found %d entries", len(entries))
	}
}

func TestPipelineProcess_RecordsResults(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t, "points.csv")}
	recent := NewRecentLog(0)
	svc := NewPipelineService(
		source,
		&mockStorage{},
		&mockTranslator{},
		&output.NoOpMetrics{},
		recent,
		testLogger(),
		PipelineConfig{ScratchDir: t.TempDir()},
	)

	_, _ = svc.Process(context.Background(), domain.UploadEvent{Name: "points.zip"})
	_, _ = svc.Process(context.Background(), domain.UploadEvent{Name: "ignored.txt"})

	if recent.Total() != 2 {
		t.Fatalf("expected 2 recorded results, got %d", recent.Total())
	}
	last, ok := recent.Last()
	if !ok {
		t.Fatal("expected a last result")
	}
	if last.Outcome != domain.OutcomeSkipped {
		t.Errorf("expected last outcome %s, got %s", domain.OutcomeSkipped, last.Outcome)
	}
}

func TestPipelineProcess_ScratchPathDerivedFromStem(t *testing.T) {
	source := &mockStorage{archiveData: makeZip(t, "points.csv")}
	translator := &mockTranslator{}
	svc, scratch := newTestPipeline(t, source, &mockStorage{}, translator)

	_, err := svc.Process(context.Background(), domain.UploadEvent{Name: "nested/dir/points.zip"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// Output was staged inside the per-invocation namespace
	wantDest := filepath.Join(scratch, "tessera-points", "points.parquet")
	if translator.lastDest != wantDest {
		t.Errorf("translator dest = %q, want %q", translator.lastDest, wantDest)
	}
}
