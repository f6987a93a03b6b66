package domain

import (
	"testing"
)

func TestUploadEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   UploadEvent
		wantErr bool
	}{
		{
			name:    "valid event",
			event:   UploadEvent{Bucket: "uploads", Name: "survey.zip"},
			wantErr: false,
		},
		{
			name:    "missing bucket is allowed",
			event:   UploadEvent{Name: "survey.zip"},
			wantErr: false,
		},
		{
			name:    "missing name",
			event:   UploadEvent{Bucket: "uploads"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUploadEventIsArchive(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"survey.zip", true},
		{"nested/path/survey.zip", true},
		{"SURVEY.ZIP", true},
		{"survey.tar.gz", false},
		{"survey.zip.bak", false},
		{"survey", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := UploadEvent{Name: tt.name}
			if got := e.IsArchive(); got != tt.want {
				t.Errorf("IsArchive(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestUploadEventOutputName(t *testing.T) {
	tests := []struct {
		object string
		want   string
	}{
		{"survey.zip", "survey.parquet"},
		{"nested/path/survey.zip", "survey.parquet"},
		{"dotted.name.zip", "dotted.name.parquet"},
	}

	for _, tt := range tests {
		t.Run(tt.object, func(t *testing.T) {
			e := UploadEvent{Name: tt.object}
			if got := e.OutputName(); got != tt.want {
				t.Errorf("OutputName(%q) = %q, want %q", tt.object, got, tt.want)
			}
		})
	}
}

func TestUploadEventStem(t *testing.T) {
	e := UploadEvent{Name: "incoming/2024/roads.zip"}
	if got := e.Stem(); got != "roads" {
		t.Errorf("Stem() = %q, want %q", got, "roads")
	}
}
