package storage

import (
	"context"
	"database/sql"
	"fmt"

	"financeflow/internal/core"
)

func (r *SQLiteRepository) Goals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_cents, current_cents, deadline, created_at
		FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g         core.Goal
			deadline  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
			&deadline, &createdAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if deadline.Valid {
			g.Deadline = parseDate(deadline.String)
		}
		g.CreatedAt = parseTimestamp(createdAt)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	var deadline any
	if !g.Deadline.IsZero() {
		deadline = formatDate(g.Deadline)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (name, target_cents, current_cents, deadline)
		VALUES (?, ?, ?, ?)`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("read goal id: %w", err)
	}
	g.ID = id
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	var deadline any
	if !g.Deadline.IsZero() {
		deadline = formatDate(g.Deadline)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals SET name = ?, target_cents = ?, current_cents = ?, deadline = ?
		WHERE id = ?`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
