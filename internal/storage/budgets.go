package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"financeflow/internal/budget"
	"financeflow/internal/core"
)

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, amount_cents, period_start, period_end)
		VALUES (?, ?, ?, ?)`,
		b.CategoryID, b.Amount.Cents, formatDate(b.PeriodStart), formatDate(b.PeriodEnd))
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("read budget id: %w", err)
	}
	return r.GetBudget(ctx, id)
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET category_id = ?, amount_cents = ?, period_start = ?, period_end = ?,
		    updated_at = datetime('now')
		WHERE id = ?`,
		b.CategoryID, b.Amount.Cents, formatDate(b.PeriodStart), formatDate(b.PeriodEnd), b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, category_id, amount_cents, period_start, period_end, created_at, updated_at
		FROM budgets WHERE id = ?`, id)

	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

// BudgetsForCategory returns budgets whose period covers the given day
// for one category. A transaction usually touches zero or one.
func (r *SQLiteRepository) BudgetsForCategory(ctx context.Context, categoryID int64, day time.Time) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, amount_cents, period_start, period_end, created_at, updated_at
		FROM budgets
		WHERE category_id = ? AND period_start <= ? AND period_end >= ?
		ORDER BY id`,
		categoryID, formatDate(day), formatDate(day))
	if err != nil {
		return nil, fmt.Errorf("budgets for category: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// SumExpenses totals expense transactions for a category inside the
// closed period. excludeTxID, when non-zero, leaves one transaction out
// of the sum, used to compute before/after states around an update.
func (r *SQLiteRepository) SumExpenses(ctx context.Context, categoryID int64, start, end time.Time, excludeTxID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE category_id = ? AND type = 'expense' AND date >= ? AND date <= ?`
	args := []any{categoryID, formatDate(start), formatDate(end)}
	if excludeTxID > 0 {
		query += " AND id != ?"
		args = append(args, excludeTxID)
	}

	var sum int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return sum, nil
}

// BudgetsWithDetails returns every budget joined with its category name
// and derived utilization figures.
func (r *SQLiteRepository) BudgetsWithDetails(ctx context.Context) ([]core.BudgetDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.category_id, b.amount_cents, b.period_start, b.period_end,
		       b.created_at, b.updated_at,
		       COALESCE(c.name, ''),
		       COALESCE((
		           SELECT SUM(t.amount_cents) FROM transactions t
		           WHERE t.category_id = b.category_id
		             AND t.type = 'expense'
		             AND t.date >= b.period_start AND t.date <= b.period_end
		       ), 0)
		FROM budgets b
		LEFT JOIN categories c ON c.id = b.category_id
		ORDER BY b.period_start DESC, b.id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets with details: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetDetail
	for rows.Next() {
		var (
			d           core.BudgetDetail
			periodStart string
			periodEnd   string
			createdAt   string
			updatedAt   string
		)
		if err := rows.Scan(&d.ID, &d.CategoryID, &d.Amount.Cents, &periodStart, &periodEnd,
			&createdAt, &updatedAt, &d.CategoryName, &d.SpentCents); err != nil {
			return nil, fmt.Errorf("scan budget detail: %w", err)
		}
		d.PeriodStart = parseDate(periodStart)
		d.PeriodEnd = parseDate(periodEnd)
		d.CreatedAt = parseTimestamp(createdAt)
		d.UpdatedAt = parseTimestamp(updatedAt)
		d.RemainingCents = d.Amount.Cents - d.SpentCents
		d.PercentageUsed = budget.UsedPercent(d.SpentCents, d.Amount.Cents)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget details: %w", err)
	}
	return out, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b           core.Budget
		periodStart string
		periodEnd   string
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(&b.ID, &b.CategoryID, &b.Amount.Cents, &periodStart, &periodEnd,
		&createdAt, &updatedAt); err != nil {
		return core.Budget{}, err
	}
	b.PeriodStart = parseDate(periodStart)
	b.PeriodEnd = parseDate(periodEnd)
	b.CreatedAt = parseTimestamp(createdAt)
	b.UpdatedAt = parseTimestamp(updatedAt)
	return b, nil
}
