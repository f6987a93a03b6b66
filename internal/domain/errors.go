package domain

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrUnavailable  = errors.New("service unavailable")
)

// Specific errors.
var (
	ErrInvalidEvent       = fmt.Errorf("event: %w", ErrInvalidInput)
	ErrNotArchive         = fmt.Errorf("object is not a zip archive: %w", ErrInvalidInput)
	ErrNoSourceFound      = fmt.Errorf("convertible source: %w", ErrNotFound)
	ErrOutputMissing      = fmt.Errorf("conversion produced no output file: %w", ErrInternal)
	ErrStorageUnavailable = fmt.Errorf("storage: %w", ErrUnavailable)
)

// StorageError represents an error during storage operations.
type StorageError struct {
	Operation string // Operation that failed (download, upload, list, etc.)
	Key       string // Object key
	Err       error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage error during %s for %s: %v",
			e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// ArchiveError represents a failure to read or enumerate an archive.
type ArchiveError struct {
	Object string // Archive object name
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive error for %s: %v", e.Object, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// ConversionError represents a failure of the vector translation step.
type ConversionError struct {
	Source string // Virtual-filesystem source path
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error for %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string // Configuration field
	Message string // Error message
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error type.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidInput
}
