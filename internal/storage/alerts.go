package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"financeflow/internal/budget"
)

// SaveAlert persists a triggered alert and returns it with its ID set.
// Suggested actions are stored as a JSON array alongside the message.
func (r *SQLiteRepository) SaveAlert(ctx context.Context, a budget.Alert) (budget.Alert, error) {
	actions, err := json.Marshal(a.SuggestedActions)
	if err != nil {
		return budget.Alert{}, fmt.Errorf("marshal suggested actions: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_alerts
			(budget_id, category_name, alert_type, severity, message, suggested_actions,
			 budget_cents, spent_cents, remaining_cents, percentage_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.BudgetID, a.CategoryName, string(a.Type), string(a.Severity), a.Message, string(actions),
		a.BudgetCents, a.SpentCents, a.RemainingCents, a.PercentageUsed)
	if err != nil {
		return budget.Alert{}, fmt.Errorf("save alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return budget.Alert{}, fmt.Errorf("read alert id: %w", err)
	}
	a.ID = id

	slog.InfoContext(ctx, "Budget alert saved",
		"id", a.ID,
		"budget_id", a.BudgetID,
		"type", string(a.Type),
		"percentage_used", a.PercentageUsed)
	return a, nil
}

// ListUnacknowledgedAlerts returns pending alerts, newest first.
func (r *SQLiteRepository) ListUnacknowledgedAlerts(ctx context.Context) ([]budget.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, budget_id, category_name, alert_type, severity, message, suggested_actions,
		       budget_cents, spent_cents, remaining_cents, percentage_used, acknowledged, created_at
		FROM budget_alerts
		WHERE acknowledged = 0
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list unacknowledged alerts: %w", err)
	}
	defer rows.Close()

	var out []budget.Alert
	for rows.Next() {
		var (
			a         budget.Alert
			alertType string
			severity  string
			actions   string
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.BudgetID, &a.CategoryName, &alertType, &severity,
			&a.Message, &actions, &a.BudgetCents, &a.SpentCents, &a.RemainingCents,
			&a.PercentageUsed, &a.Acknowledged, &createdAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Type = budget.AlertType(alertType)
		a.Severity = budget.Severity(severity)
		a.CreatedAt = parseTimestamp(createdAt)
		if err := json.Unmarshal([]byte(actions), &a.SuggestedActions); err != nil {
			return nil, fmt.Errorf("unmarshal suggested actions: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) AcknowledgeAlert(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budget_alerts SET acknowledged = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("acknowledge alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("acknowledge alert rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
