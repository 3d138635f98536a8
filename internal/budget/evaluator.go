// Package budget implements the budget alert evaluator: pure,
// synchronous classification of budget utilization and derivation of
// alerts when a transaction pushes a budget across a threshold.
package budget

import (
	"math"
	"time"

	"financeflow/internal/core"
)

const (
	StatusUnder       Status = "under"
	StatusApproaching Status = "approaching"
	StatusOver        Status = "over"
)

const (
	AlertApproaching AlertType = "approaching"
	AlertAtLimit     AlertType = "at_limit"
	AlertOverBudget  AlertType = "over_budget"
)

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultApproachingThreshold is the percentage_used boundary separating
// "under" from "approaching".
const DefaultApproachingThreshold = 75.0

type (
	Status    string
	AlertType string
	Severity  string

	// State is a point-in-time snapshot of a budget's utilization.
	State struct {
		BudgetCents    int64
		SpentCents     int64
		RemainingCents int64
		PercentageUsed float64
		Status         Status
	}

	// Alert is the structured notification derived when a budget newly
	// qualifies for a threshold. It is only persisted so the user can
	// acknowledge it.
	Alert struct {
		ID               int64
		BudgetID         int64
		CategoryName     string
		Type             AlertType
		Severity         Severity
		Message          string
		SuggestedActions []string
		BudgetCents      int64
		SpentCents       int64
		RemainingCents   int64
		PercentageUsed   float64
		Acknowledged     bool
		CreatedAt        time.Time
	}

	// Impact pairs the before/after snapshots around one transaction
	// event with the alerts that fired as a result.
	Impact struct {
		Before State
		After  State
		Alerts []Alert
	}

	// Evaluator classifies budget utilization. It holds no mutable
	// state and performs no I/O.
	Evaluator struct {
		threshold float64
		language  string
	}
)

// NewEvaluator returns an evaluator using the given approaching
// threshold (percent) and alert message language. Out-of-range
// thresholds fall back to the default; unknown languages fall back to
// English at lookup time.
func NewEvaluator(threshold float64, language string) *Evaluator {
	if threshold <= 0 || threshold >= 100 || math.IsNaN(threshold) {
		threshold = DefaultApproachingThreshold
	}
	if language == "" {
		language = LanguageEnglish
	}
	return &Evaluator{threshold: threshold, language: language}
}

// UsedPercent computes spent/budget*100, guarding against division by
// zero and non-finite results so formatting never has to deal with NaN.
func UsedPercent(spentCents, budgetCents int64) float64 {
	if budgetCents <= 0 {
		return 0
	}
	pct := float64(spentCents) / float64(budgetCents) * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// Classify maps a utilization percentage onto a status tier.
func (e *Evaluator) Classify(spentCents, budgetCents int64) Status {
	pct := UsedPercent(spentCents, budgetCents)
	switch {
	case pct >= 100:
		return StatusOver
	case pct >= e.threshold:
		return StatusApproaching
	default:
		return StatusUnder
	}
}

// StateFor builds the full snapshot for a budget's current sums.
func (e *Evaluator) StateFor(spentCents, budgetCents int64) State {
	return State{
		BudgetCents:    budgetCents,
		SpentCents:     spentCents,
		RemainingCents: budgetCents - spentCents,
		PercentageUsed: UsedPercent(spentCents, budgetCents),
		Status:         e.Classify(spentCents, budgetCents),
	}
}

// alert bands, ordered. Exactly-at-limit sits between approaching and
// over so that reaching 100% and exceeding it raise distinct alerts.
func (e *Evaluator) band(s State) int {
	switch {
	case s.PercentageUsed > 100:
		return 3
	case s.PercentageUsed == 100:
		return 2
	case s.PercentageUsed >= e.threshold:
		return 1
	default:
		return 0
	}
}

func alertTypeForBand(band int) (AlertType, Severity) {
	switch band {
	case 3:
		return AlertOverBudget, SeverityError
	case 2:
		return AlertAtLimit, SeverityWarning
	default:
		return AlertApproaching, SeverityWarning
	}
}

// EvaluateImpact computes the before/after budget state around a single
// transaction and the alerts triggered by that delta. Alerts fire only
// on upward band transitions; downward transitions (edits and deletes
// that reduce spending) re-classify silently and never retract earlier
// alerts.
func (e *Evaluator) EvaluateImpact(b core.Budget, categoryName string, spentBefore, spentAfter int64) Impact {
	impact := Impact{
		Before: e.StateFor(spentBefore, b.Amount.Cents),
		After:  e.StateFor(spentAfter, b.Amount.Cents),
	}

	bandBefore := e.band(impact.Before)
	bandAfter := e.band(impact.After)
	if bandAfter <= bandBefore || bandAfter == 0 {
		return impact
	}

	alertType, severity := alertTypeForBand(bandAfter)
	impact.Alerts = append(impact.Alerts, Alert{
		BudgetID:         b.ID,
		CategoryName:     categoryName,
		Type:             alertType,
		Severity:         severity,
		Message:          e.RenderMessage(alertType, categoryName, impact.After),
		SuggestedActions: SuggestedActions(e.language, alertType),
		BudgetCents:      impact.After.BudgetCents,
		SpentCents:       impact.After.SpentCents,
		RemainingCents:   impact.After.RemainingCents,
		PercentageUsed:   impact.After.PercentageUsed,
		CreatedAt:        time.Now(),
	})
	return impact
}
