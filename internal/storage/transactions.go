package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"financeflow/internal/core"
)

// TransactionFilter narrows ListTransactions. Zero values are open.
type TransactionFilter struct {
	StartDate  string // ISO day, inclusive
	EndDate    string // ISO day, inclusive
	CategoryID int64
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (amount_cents, description, category_id, type, date)
		VALUES (?, ?, ?, ?, ?)`,
		t.Amount.Cents, t.Description, t.CategoryID, string(t.Type), formatDate(t.Date))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read transaction id: %w", err)
	}

	created, err := r.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", created.ID,
		"amount_cents", created.Amount.Cents,
		"category_id", created.CategoryID,
		"type", string(created.Type))

	return created, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, description = ?, category_id = ?, type = ?, date = ?,
		    updated_at = datetime('now')
		WHERE id = ?`,
		t.Amount.Cents, t.Description, t.CategoryID, string(t.Type), formatDate(t.Date), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, description, category_id, type, date, created_at, updated_at
		FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// ListTransactions returns transactions joined with their category
// name and color, newest first. Transactions whose category was
// force-deleted carry an empty category name.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.TransactionDetail, error) {
	query := `
		SELECT t.id, t.amount_cents, t.description, t.category_id, t.type, t.date,
		       t.created_at, t.updated_at,
		       COALESCE(c.name, ''), COALESCE(c.color, '')
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE 1=1`
	args := []any{}

	if f.StartDate != "" {
		query += " AND t.date >= ?"
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += " AND t.date <= ?"
		args = append(args, f.EndDate)
	}
	if f.CategoryID > 0 {
		query += " AND t.category_id = ?"
		args = append(args, f.CategoryID)
	}
	query += " ORDER BY t.date DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionDetail
	for rows.Next() {
		var (
			d          core.TransactionDetail
			categoryID sql.NullInt64
			txType     string
			date       string
			createdAt  string
			updatedAt  string
		)
		if err := rows.Scan(&d.ID, &d.Amount.Cents, &d.Description, &categoryID, &txType,
			&date, &createdAt, &updatedAt, &d.CategoryName, &d.CategoryColor); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		d.CategoryID = categoryID.Int64
		d.Type = core.TransactionType(txType)
		d.Date = parseDate(date)
		d.CreatedAt = parseTimestamp(createdAt)
		d.UpdatedAt = parseTimestamp(updatedAt)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// TransactionsWithCategories implements the export pipeline's reader
// contract: the full unfiltered join.
func (r *SQLiteRepository) TransactionsWithCategories(ctx context.Context) ([]core.TransactionDetail, error) {
	return r.ListTransactions(ctx, TransactionFilter{})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		categoryID sql.NullInt64
		txType     string
		date       string
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&t.ID, &t.Amount.Cents, &t.Description, &categoryID, &txType,
		&date, &createdAt, &updatedAt); err != nil {
		return core.Transaction{}, err
	}
	t.CategoryID = categoryID.Int64
	t.Type = core.TransactionType(txType)
	t.Date = parseDate(date)
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return t, nil
}
