package export

import (
	"strings"
	"testing"
	"time"
)

func TestOptionsValidate(t *testing.T) {
	base := Options{Format: FormatCSV, IncludeTransactions: true}

	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantKey string
	}{
		{
			name:   "valid csv",
			mutate: func(o *Options) {},
		},
		{
			name:   "valid json",
			mutate: func(o *Options) { o.Format = FormatJSON },
		},
		{
			name: "no data types selected",
			mutate: func(o *Options) {
				o.IncludeTransactions = false
			},
			wantKey: "data_types",
		},
		{
			name:    "unknown format",
			mutate:  func(o *Options) { o.Format = "xml" },
			wantKey: "format",
		},
		{
			name: "start after end",
			mutate: func(o *Options) {
				o.StartDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
				o.EndDate = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
			},
			wantKey: "date_range",
		},
		{
			name: "open-ended range is fine",
			mutate: func(o *Options) {
				o.StartDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			errs := o.Validate()
			if tt.wantKey == "" {
				if errs != nil {
					t.Errorf("Validate() = %v, want nil", errs)
				}
				return
			}
			if errs == nil {
				t.Fatalf("Validate() = nil, want error for %q", tt.wantKey)
			}
			if _, ok := errs[tt.wantKey]; !ok {
				t.Errorf("Validate() missing key %q, got %v", tt.wantKey, errs)
			}
		})
	}
}

func TestOptionsValidateDataTypesMessage(t *testing.T) {
	errs := Options{Format: FormatCSV}.Validate()
	if errs == nil {
		t.Fatal("Validate() = nil, want error")
	}
	want := "At least one data type must be selected for export"
	if errs["data_types"] != want {
		t.Errorf("Validate()[data_types] = %q, want %q", errs["data_types"], want)
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{
		"format":     "format must be csv or json",
		"data_types": "At least one data type must be selected for export",
	}
	got := errs.Error()
	// Keys sort alphabetically, so the data-types message comes first.
	if !strings.HasPrefix(got, "At least one data type") {
		t.Errorf("Error() = %q, want data_types message first", got)
	}
	if !strings.Contains(got, "; format must be csv or json") {
		t.Errorf("Error() = %q, missing format message", got)
	}
}

func TestFormatExtension(t *testing.T) {
	if got := FormatCSV.Extension(); got != "csv" {
		t.Errorf("Extension() = %q, want %q", got, "csv")
	}
	if got := FormatJSON.Extension(); got != "json" {
		t.Errorf("Extension() = %q, want %q", got, "json")
	}
}

func TestDatasetRecordCount(t *testing.T) {
	d := sampleDataset()
	// 2 transactions + 2 categories + 1 budget + 1 goal.
	if got := d.RecordCount(); got != 6 {
		t.Errorf("RecordCount() = %d, want 6", got)
	}
	if got := (Dataset{}).RecordCount(); got != 0 {
		t.Errorf("RecordCount() on empty dataset = %d, want 0", got)
	}
}
