package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"financeflow/internal/core"
)

func (r *SQLiteRepository) ListCategories(ctx context.Context, includeHidden bool) ([]core.Category, error) {
	query := `
		SELECT id, name, color, icon, is_default, is_hidden
		FROM categories`
	if !includeHidden {
		query += " WHERE is_hidden = 0"
	}
	query += " ORDER BY name COLLATE NOCASE"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.IsDefault, &c.IsHidden); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// Categories implements the export pipeline's reader contract: every
// category including hidden ones, since exports are a full snapshot.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.Category, error) {
	return r.ListCategories(ctx, true)
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, icon, is_default, is_hidden
		FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.IsDefault, &c.IsHidden)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, color, icon, is_default, is_hidden)
		VALUES (?, ?, ?, 0, 0)`,
		c.Name, c.Color, c.Icon)
	if isUniqueViolation(err) {
		return core.Category{}, ErrDuplicateCategory
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("read category id: %w", err)
	}
	return r.GetCategory(ctx, id)
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ?`,
		c.Name, c.Color, c.Icon, c.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateCategory
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCategoryHidden hides or unhides a category. Hiding is the only
// removal path for default categories.
func (r *SQLiteRepository) SetCategoryHidden(ctx context.Context, id int64, hidden bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET is_hidden = ? WHERE id = ?`, hidden, id)
	if err != nil {
		return fmt.Errorf("set category hidden: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set category hidden rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a custom category. Defaults are refused. A
// category still referenced by transactions is refused unless force is
// set, in which case its transactions are detached (category set to
// NULL) in the same database transaction before the delete.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64, force bool) error {
	c, err := r.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return ErrDefaultCategory
	}

	var inUse int64
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, id).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("count category transactions: %w", err)
	}
	if inUse > 0 && !force {
		return ErrCategoryInUse
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	if inUse > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category_id = NULL WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("detach category transactions: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted",
		"id", id,
		"name", c.Name,
		"forced", force,
		"detached_transactions", inUse)
	return nil
}
