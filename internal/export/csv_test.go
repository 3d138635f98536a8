package export

import (
	"strings"
	"testing"

	"financeflow/internal/core"
)

func TestFormatCSVSections(t *testing.T) {
	got, err := RenderCSV(sampleDataset())
	if err != nil {
		t.Fatalf("FormatCSV() error = %v", err)
	}

	for _, want := range []string{
		"# Transactions\n",
		"# Categories\n",
		"# Budgets\n",
		"# Goals\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatCSV() missing section marker %q", want)
		}
	}

	// Headers are upper-cased with underscores turned into spaces.
	if !strings.Contains(got, "ID,AMOUNT,DESCRIPTION,CATEGORY,TYPE,DATE") {
		t.Errorf("FormatCSV() missing transaction header, got:\n%s", got)
	}
	if !strings.Contains(got, "SPENT AMOUNT,REMAINING AMOUNT,PERCENTAGE USED") {
		t.Errorf("FormatCSV() missing budget header, got:\n%s", got)
	}

	// A comma in the description forces CSV quoting.
	if !strings.Contains(got, `"Coffee, extra shot"`) {
		t.Errorf("FormatCSV() did not quote comma field, got:\n%s", got)
	}

	// Amounts render as plain 2-decimal strings.
	if !strings.Contains(got, "12.50") {
		t.Errorf("FormatCSV() missing 12.50 amount, got:\n%s", got)
	}
	if !strings.Contains(got, "380.00") {
		t.Errorf("FormatCSV() missing 380.00 spent amount, got:\n%s", got)
	}

	// Sections are separated by a blank line.
	if !strings.Contains(got, "\n\n# Categories") {
		t.Errorf("FormatCSV() missing blank line before Categories, got:\n%s", got)
	}
}

func TestFormatCSVExcludedTypes(t *testing.T) {
	d := Dataset{Transactions: []core.TransactionDetail{}}
	got, err := RenderCSV(d)
	if err != nil {
		t.Fatalf("FormatCSV() error = %v", err)
	}
	if !strings.Contains(got, "# Transactions") {
		t.Errorf("FormatCSV() missing included-but-empty section, got:\n%s", got)
	}
	for _, absent := range []string{"# Categories", "# Budgets", "# Goals"} {
		if strings.Contains(got, absent) {
			t.Errorf("FormatCSV() contains excluded section %q", absent)
		}
	}
}

func TestCentsToDecimal(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1250, "12.50"},
		{38000, "380.00"},
		{-5000, "-50.00"},
	}
	for _, tt := range tests {
		if got := centsToDecimal(tt.cents); got != tt.want {
			t.Errorf("centsToDecimal(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestValidateCSVContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "  \n\t\n", true},
		{"header only", "ID,NAME\n", true},
		{"header and row", "ID,NAME\n1,Food\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCSVContent(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCSVContent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
