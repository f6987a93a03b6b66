package domain

import (
	"errors"
	"testing"
)

func TestStorageError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := &StorageError{
		Operation: "download",
		Key:       "survey.zip",
		Err:       underlying,
	}

	if err.Error() == "" {
		t.Error("Error() should not return empty string")
	}

	if !errors.Is(err, underlying) {
		t.Error("StorageError should unwrap to the underlying error")
	}

	// Without a key the message still names the operation
	noKey := &StorageError{Operation: "list", Err: underlying}
	if noKey.Error() == "" {
		t.Error("Error() should not return empty string without key")
	}
}

func TestArchiveError(t *testing.T) {
	underlying := errors.New("zip: not a valid zip file")
	err := &ArchiveError{Object: "broken.zip", Err: underlying}

	if err.Error() == "" {
		t.Error("Error() should not return empty string")
	}
	if !errors.Is(err, underlying) {
		t.Error("ArchiveError should unwrap to the underlying error")
	}
}

func TestConversionError(t *testing.T) {
	underlying := errors.New("exit status 1")
	err := &ConversionError{Source: "/vsizip//vsigs/b/a.zip/a.shp", Err: underlying}

	if err.Error() == "" {
		t.Error("Error() should not return empty string")
	}
	if !errors.Is(err, underlying) {
		t.Error("ConversionError should unwrap to the underlying error")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "storage.type", Message: "unknown storage type"}

	if err.Error() == "" {
		t.Error("Error() should not return empty string")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ConfigError should unwrap to ErrInvalidInput")
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		base error
	}{
		{"invalid event", ErrInvalidEvent, ErrInvalidInput},
		{"not archive", ErrNotArchive, ErrInvalidInput},
		{"no source found", ErrNoSourceFound, ErrNotFound},
		{"output missing", ErrOutputMissing, ErrInternal},
		{"storage unavailable", ErrStorageUnavailable, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.base) {
				t.Errorf("%v should wrap %v", tt.err, tt.base)
			}
		})
	}
}
