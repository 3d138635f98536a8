package export

import (
	"strings"
	"testing"
	"time"
)

func TestEstimateFileSize(t *testing.T) {
	tests := []struct {
		records int
		format  Format
		want    int64
	}{
		{0, FormatCSV, 100},
		{100, FormatCSV, 15100},
		{0, FormatJSON, 1000},
		{100, FormatJSON, 26000},
		{-5, FormatCSV, 100},
	}
	for _, tt := range tests {
		if got := EstimateFileSize(tt.records, tt.format); got != tt.want {
			t.Errorf("EstimateFileSize(%d, %q) = %d, want %d", tt.records, tt.format, got, tt.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{-10, "0 B"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2025, 7, 4, 15, 30, 0, 0, time.UTC)

	if got := ExportFilename(FormatCSV, at); got != "financeflow_export_20250704.csv" {
		t.Errorf("ExportFilename(csv) = %q", got)
	}
	if got := ExportFilename(FormatJSON, at); got != "financeflow_export_20250704.json" {
		t.Errorf("ExportFilename(json) = %q", got)
	}

	// Unsafe characters in the extension are replaced, never passed
	// through to the filesystem.
	got := ExportFilename(Format("c/sv"), at)
	if strings.ContainsAny(got, "/\\") {
		t.Errorf("ExportFilename() = %q, contains path separator", got)
	}
	if len(got) > 255 {
		t.Errorf("ExportFilename() length = %d, want <= 255", len(got))
	}
}
