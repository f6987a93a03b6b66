package domain

import "time"

// Outcome is the terminal state of a single pipeline invocation.
type Outcome string

// Terminal outcomes. Every invocation ends in exactly one of these; only
// OutcomeUploadFailed surfaces an error to the caller, all other failures
// are logged and absorbed.
const (
	OutcomeDone             Outcome = "done"
	OutcomeSkipped          Outcome = "skipped"
	OutcomeArchiveFailed    Outcome = "archive_failed"
	OutcomeNoSourceFound    Outcome = "no_source_found"
	OutcomeConversionFailed Outcome = "conversion_failed"
	OutcomeUploadFailed     Outcome = "upload_failed"
)

// Succeeded reports whether the invocation published an output artifact.
func (o Outcome) Succeeded() bool {
	return o == OutcomeDone
}

// Result records one pipeline invocation for diagnostics and metrics.
type Result struct {
	Object      string        `json:"object"`                 // Triggering archive object name
	Bucket      string        `json:"bucket,omitempty"`       // Source bucket
	Outcome     Outcome       `json:"outcome"`                // Terminal state
	SourceKind  SourceKind    `json:"source_kind,omitempty"`  // Selected source type, if any
	SourcePath  string        `json:"source_path,omitempty"`  // Virtual-filesystem locator handed to the translator
	Output      string        `json:"output,omitempty"`       // Published object name
	Detail      string        `json:"detail,omitempty"`       // Human-readable failure detail
	Duration    time.Duration `json:"duration"`               // Wall time of the invocation
	CompletedAt time.Time     `json:"completed_at"`           // Invocation end time
}
