package export

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tagged row types, one explicit serializer per record variant.
type (
	jsonTransaction struct {
		ID          int64  `json:"id"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Type        string `json:"type"`
		Date        string `json:"date"`
	}

	jsonCategory struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Color     string `json:"color"`
		Icon      string `json:"icon"`
		IsDefault bool   `json:"is_default"`
		IsHidden  bool   `json:"is_hidden"`
	}

	jsonBudget struct {
		ID              int64   `json:"id"`
		Category        string  `json:"category"`
		Amount          string  `json:"amount"`
		SpentAmount     string  `json:"spent_amount"`
		RemainingAmount string  `json:"remaining_amount"`
		PercentageUsed  float64 `json:"percentage_used"`
		PeriodStart     string  `json:"period_start"`
		PeriodEnd       string  `json:"period_end"`
	}

	jsonGoal struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		TargetAmount  string `json:"target_amount"`
		CurrentAmount string `json:"current_amount"`
		Deadline      string `json:"deadline,omitempty"`
	}

	jsonMetadata struct {
		ExportedAt   time.Time      `json:"exported_at"`
		App          string         `json:"app"`
		Version      string         `json:"version"`
		Options      Options        `json:"options"`
		RecordCounts map[string]int `json:"recordCounts"`
	}

	// Excluded types are nil pointers so their keys are omitted rather
	// than emitted as null; included-but-empty types serialize as [].
	jsonData struct {
		Transactions *[]jsonTransaction `json:"transactions,omitempty"`
		Categories   *[]jsonCategory    `json:"categories,omitempty"`
		Budgets      *[]jsonBudget      `json:"budgets,omitempty"`
		Goals        *[]jsonGoal        `json:"goals,omitempty"`
	}

	jsonDocument struct {
		Metadata jsonMetadata `json:"metadata"`
		Data     jsonData     `json:"data"`
	}
)

// RenderJSON renders the dataset as a single JSON object with a
// metadata block (timestamp, app identifiers, the original options and
// per-type record counts) and a data block holding only the included
// record-type arrays.
func RenderJSON(d Dataset, opts Options, app, version string, exportedAt time.Time) (string, error) {
	doc := jsonDocument{
		Metadata: jsonMetadata{
			ExportedAt:   exportedAt,
			App:          app,
			Version:      version,
			Options:      opts,
			RecordCounts: map[string]int{},
		},
	}

	if d.Transactions != nil {
		rows := make([]jsonTransaction, len(d.Transactions))
		for i, t := range d.Transactions {
			rows[i] = jsonTransaction{
				ID:          t.ID,
				Amount:      centsToDecimal(t.Amount.Cents),
				Description: t.Description,
				Category:    t.CategoryName,
				Type:        string(t.Type),
				Date:        t.Date.Format(csvDateLayout),
			}
		}
		doc.Data.Transactions = &rows
		doc.Metadata.RecordCounts["transactions"] = len(rows)
	}

	if d.Categories != nil {
		rows := make([]jsonCategory, len(d.Categories))
		for i, c := range d.Categories {
			rows[i] = jsonCategory{
				ID:        c.ID,
				Name:      c.Name,
				Color:     c.Color,
				Icon:      c.Icon,
				IsDefault: c.IsDefault,
				IsHidden:  c.IsHidden,
			}
		}
		doc.Data.Categories = &rows
		doc.Metadata.RecordCounts["categories"] = len(rows)
	}

	if d.Budgets != nil {
		rows := make([]jsonBudget, len(d.Budgets))
		for i, b := range d.Budgets {
			rows[i] = jsonBudget{
				ID:              b.ID,
				Category:        b.CategoryName,
				Amount:          centsToDecimal(b.Amount.Cents),
				SpentAmount:     centsToDecimal(b.SpentCents),
				RemainingAmount: centsToDecimal(b.RemainingCents),
				PercentageUsed:  b.PercentageUsed,
				PeriodStart:     b.PeriodStart.Format(csvDateLayout),
				PeriodEnd:       b.PeriodEnd.Format(csvDateLayout),
			}
		}
		doc.Data.Budgets = &rows
		doc.Metadata.RecordCounts["budgets"] = len(rows)
	}

	if d.Goals != nil {
		rows := make([]jsonGoal, len(d.Goals))
		for i, g := range d.Goals {
			deadline := ""
			if !g.Deadline.IsZero() {
				deadline = g.Deadline.Format(csvDateLayout)
			}
			rows[i] = jsonGoal{
				ID:            g.ID,
				Name:          g.Name,
				TargetAmount:  centsToDecimal(g.TargetAmount.Cents),
				CurrentAmount: centsToDecimal(g.CurrentAmount.Cents),
				Deadline:      deadline,
			}
		}
		doc.Data.Goals = &rows
		doc.Metadata.RecordCounts["goals"] = len(rows)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export document: %w", err)
	}
	return string(out), nil
}
