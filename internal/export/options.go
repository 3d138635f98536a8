// Package export implements the data export pipeline: validation of
// export options, collection and filtering of record sets, CSV/JSON
// formatting, weighted progress reporting and saving through a
// file-system collaborator.
package export

import (
	"sort"
	"strings"
	"time"

	"financeflow/internal/core"
)

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

type (
	Format string

	// Options selects what to export and how.
	Options struct {
		Format              Format    `json:"format"`
		IncludeTransactions bool      `json:"include_transactions"`
		IncludeCategories   bool      `json:"include_categories"`
		IncludeBudgets      bool      `json:"include_budgets"`
		IncludeGoals        bool      `json:"include_goals"`
		StartDate           time.Time `json:"start_date,omitempty"`
		EndDate             time.Time `json:"end_date,omitempty"`
		CategoryIDs         []int64   `json:"category_ids,omitempty"`
		Anonymize           bool      `json:"anonymize"`
	}

	// Result is the tagged outcome of one export invocation. Failures
	// are reported here, never as panics or raw errors to the caller.
	Result struct {
		Success     bool   `json:"success"`
		FileName    string `json:"file_name,omitempty"`
		FilePath    string `json:"file_path,omitempty"`
		FileSize    int64  `json:"file_size,omitempty"`
		RecordCount int    `json:"record_count"`
		Error       string `json:"error,omitempty"`
	}

	// Dataset holds the collected record sets for one export. Nil
	// slices mean the type was not included; empty non-nil slices mean
	// included but empty.
	Dataset struct {
		Transactions []core.TransactionDetail
		Categories   []core.Category
		Budgets      []core.BudgetDetail
		Goals        []core.Goal
	}

	// ValidationErrors maps option field names to human-readable
	// messages.
	ValidationErrors map[string]string
)

func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatJSON
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	return string(f)
}

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, v[k])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the options before any collaborator is touched.
func (o Options) Validate() ValidationErrors {
	errs := make(ValidationErrors)

	if !o.IncludeTransactions && !o.IncludeCategories && !o.IncludeBudgets && !o.IncludeGoals {
		errs["data_types"] = "At least one data type must be selected for export"
	}
	if !o.Format.Valid() {
		errs["format"] = "format must be csv or json"
	}
	if !o.StartDate.IsZero() && !o.EndDate.IsZero() && o.StartDate.After(o.EndDate) {
		errs["date_range"] = "start date must not be after end date"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// includedCount returns how many record types the options select.
func (o Options) includedCount() int {
	n := 0
	for _, inc := range []bool{o.IncludeTransactions, o.IncludeCategories, o.IncludeBudgets, o.IncludeGoals} {
		if inc {
			n++
		}
	}
	return n
}

// RecordCount sums the records across all collected types.
func (d Dataset) RecordCount() int {
	return len(d.Transactions) + len(d.Categories) + len(d.Budgets) + len(d.Goals)
}
