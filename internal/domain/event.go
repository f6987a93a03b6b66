// Package domain contains the core types of the conversion pipeline.
package domain

import (
	"path"
	"strings"
)

// ArchiveExtension is the only object suffix the pipeline processes.
const ArchiveExtension = ".zip"

// OutputExtension is the suffix of every produced artifact.
const OutputExtension = ".parquet"

// UploadEvent identifies an archive uploaded to the source store.
// It is supplied by the triggering collaborator (upload notification,
// directory watcher or reconciliation sweep) and is read-only.
type UploadEvent struct {
	Bucket string `json:"bucket"` // Source bucket/container name
	Name   string `json:"name"`   // Object name within the bucket
}

// Validate checks that the event names an object.
func (e UploadEvent) Validate() error {
	if e.Name == "" {
		return ErrInvalidEvent
	}
	return nil
}

// IsArchive reports whether the event names a zip archive.
func (e UploadEvent) IsArchive() bool {
	return strings.HasSuffix(strings.ToLower(e.Name), ArchiveExtension)
}

// Stem returns the archive base name without directories or extension.
// It names both the scratch output file and the published object.
func (e UploadEvent) Stem() string {
	base := path.Base(e.Name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// OutputName returns the destination object name for this archive.
func (e UploadEvent) OutputName() string {
	return e.Stem() + OutputExtension
}
