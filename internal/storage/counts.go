package storage

import (
	"context"
	"fmt"
)

// RecordCounts holds per-table row counts, used for export size
// estimates.
type RecordCounts struct {
	Transactions int
	Categories   int
	Budgets      int
	Goals        int
}

func (r *SQLiteRepository) CountRecords(ctx context.Context) (RecordCounts, error) {
	var c RecordCounts
	row := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM budgets),
			(SELECT COUNT(*) FROM goals)`)
	if err := row.Scan(&c.Transactions, &c.Categories, &c.Budgets, &c.Goals); err != nil {
		return RecordCounts{}, fmt.Errorf("count records: %w", err)
	}
	return c, nil
}
