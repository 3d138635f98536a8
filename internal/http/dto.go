// Wire representations of the domain types. Domain structs stay free
// of JSON tags; every payload crossing the API boundary goes through
// these.
package http

import (
	"time"

	"financeflow/internal/budget"
	"financeflow/internal/core"
)

type jsonTransaction struct {
	ID          int64  `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id,omitempty"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type jsonTransactionDetail struct {
	jsonTransaction
	CategoryName  string `json:"category_name,omitempty"`
	CategoryColor string `json:"category_color,omitempty"`
}

type jsonCategory struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"is_default"`
	IsHidden  bool   `json:"is_hidden"`
}

type jsonBudget struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	AmountCents int64  `json:"amount_cents"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

type jsonBudgetDetail struct {
	jsonBudget
	CategoryName   string  `json:"category_name"`
	SpentCents     int64   `json:"spent_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	PercentageUsed float64 `json:"percentage_used"`
}

type jsonGoal struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TargetCents  int64  `json:"target_cents"`
	CurrentCents int64  `json:"current_cents"`
	Deadline     string `json:"deadline,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type jsonBudgetState struct {
	BudgetCents    int64   `json:"budget_cents"`
	SpentCents     int64   `json:"spent_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	PercentageUsed float64 `json:"percentage_used"`
	Status         string  `json:"status"`
}

type jsonAlert struct {
	ID               int64    `json:"id"`
	BudgetID         int64    `json:"budget_id"`
	CategoryName     string   `json:"category_name"`
	AlertType        string   `json:"alert_type"`
	Severity         string   `json:"severity"`
	Message          string   `json:"message"`
	SuggestedActions []string `json:"suggested_actions"`
	BudgetCents      int64    `json:"budget_cents"`
	SpentCents       int64    `json:"spent_cents"`
	RemainingCents   int64    `json:"remaining_cents"`
	PercentageUsed   float64  `json:"percentage_used"`
	Acknowledged     bool     `json:"acknowledged"`
	CreatedAt        string   `json:"created_at,omitempty"`
}

type jsonImpact struct {
	Before jsonBudgetState `json:"before"`
	After  jsonBudgetState `json:"after"`
	Alerts []jsonAlert     `json:"alerts"`
}

func toJSONTransaction(t core.Transaction) jsonTransaction {
	return jsonTransaction{
		ID:          t.ID,
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		Type:        string(t.Type),
		Date:        t.Date.Format(dateLayout),
		CreatedAt:   formatTimestamp(t.CreatedAt),
		UpdatedAt:   formatTimestamp(t.UpdatedAt),
	}
}

func toJSONTransactionDetail(t core.TransactionDetail) jsonTransactionDetail {
	return jsonTransactionDetail{
		jsonTransaction: toJSONTransaction(t.Transaction),
		CategoryName:    t.CategoryName,
		CategoryColor:   t.CategoryColor,
	}
}

func toJSONCategory(c core.Category) jsonCategory {
	return jsonCategory{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		IsDefault: c.IsDefault,
		IsHidden:  c.IsHidden,
	}
}

func toJSONBudget(b core.Budget) jsonBudget {
	return jsonBudget{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		AmountCents: b.Amount.Cents,
		PeriodStart: b.PeriodStart.Format(dateLayout),
		PeriodEnd:   b.PeriodEnd.Format(dateLayout),
	}
}

func toJSONBudgetDetail(d core.BudgetDetail) jsonBudgetDetail {
	return jsonBudgetDetail{
		jsonBudget:     toJSONBudget(d.Budget),
		CategoryName:   d.CategoryName,
		SpentCents:     d.SpentCents,
		RemainingCents: d.RemainingCents,
		PercentageUsed: d.PercentageUsed,
	}
}

func toJSONGoal(g core.Goal) jsonGoal {
	j := jsonGoal{
		ID:           g.ID,
		Name:         g.Name,
		TargetCents:  g.TargetAmount.Cents,
		CurrentCents: g.CurrentAmount.Cents,
		CreatedAt:    formatTimestamp(g.CreatedAt),
	}
	if !g.Deadline.IsZero() {
		j.Deadline = g.Deadline.Format(dateLayout)
	}
	return j
}

func toJSONBudgetState(s budget.State) jsonBudgetState {
	return jsonBudgetState{
		BudgetCents:    s.BudgetCents,
		SpentCents:     s.SpentCents,
		RemainingCents: s.RemainingCents,
		PercentageUsed: s.PercentageUsed,
		Status:         string(s.Status),
	}
}

func toJSONAlert(a budget.Alert) jsonAlert {
	actions := a.SuggestedActions
	if actions == nil {
		actions = []string{}
	}
	return jsonAlert{
		ID:               a.ID,
		BudgetID:         a.BudgetID,
		CategoryName:     a.CategoryName,
		AlertType:        string(a.Type),
		Severity:         string(a.Severity),
		Message:          a.Message,
		SuggestedActions: actions,
		BudgetCents:      a.BudgetCents,
		SpentCents:       a.SpentCents,
		RemainingCents:   a.RemainingCents,
		PercentageUsed:   a.PercentageUsed,
		Acknowledged:     a.Acknowledged,
		CreatedAt:        formatTimestamp(a.CreatedAt),
	}
}

func toJSONImpacts(impacts []budget.Impact) []jsonImpact {
	out := make([]jsonImpact, 0, len(impacts))
	for _, imp := range impacts {
		alerts := make([]jsonAlert, 0, len(imp.Alerts))
		for _, a := range imp.Alerts {
			alerts = append(alerts, toJSONAlert(a))
		}
		out = append(out, jsonImpact{
			Before: toJSONBudgetState(imp.Before),
			After:  toJSONBudgetState(imp.After),
			Alerts: alerts,
		})
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
