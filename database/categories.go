package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fintrack/models"
	"fmt"
	"time"
)

// ==================== CATEGORY OPERATIONS ====================

const categoryColumns = `id, user_id, name, names, icon, kind, is_active, display_order, created_at, updated_at`

func scanCategory(row rowScanner) (*models.Category, error) {
	var cat models.Category
	var names string
	if err := row.Scan(
		&cat.ID, &cat.UserID, &cat.Name, &names, &cat.Icon, &cat.Kind,
		&cat.IsActive, &cat.DisplayOrder, &cat.CreatedAt, &cat.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := decodeNames(names, &cat.Names); err != nil {
		return nil, fmt.Errorf("decode names of category %s: %w", cat.ID, err)
	}
	return &cat, nil
}

func decodeNames(raw string, dst *map[string]string) error {
	*dst = make(map[string]string)
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func encodeNames(names map[string]string) (string, error) {
	if len(names) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(names)
	return string(b), err
}

// GetCategories retrieves a user's categories in display order.
// An empty kind returns both kinds, expenses first.
func (r *Repository) GetCategories(ctx context.Context, userID string, kind models.Kind, includeInactive bool) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	if !includeInactive {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY kind ASC, display_order ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	categories := make([]models.Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}

	return categories, rows.Err()
}

// GetCategoryByID retrieves one of the user's categories; nil when missing.
func (r *Repository) GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	cat, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`,
		categoryID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return cat, err
}

// GetCategoryByName looks a category up by its canonical name (case-insensitive)
func (r *Repository) GetCategoryByName(ctx context.Context, userID string, kind models.Kind, name string) (*models.Category, error) {
	cat, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? AND kind = ? AND name = ?`,
		userID, kind, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return cat, err
}

// CreateCategory inserts a category at the end of its kind's display order
func (r *Repository) CreateCategory(ctx context.Context, cat *models.Category) error {
	names, err := encodeNames(cat.Names)
	if err != nil {
		return err
	}

	now := time.Now()
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = now
	}
	cat.UpdatedAt = now

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, user_id, name, names, icon, kind, is_active, display_order, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(display_order) + 1 FROM categories WHERE user_id = ? AND kind = ?), 0),
			?, ?
		RETURNING display_order
	`,
		cat.ID, cat.UserID, cat.Name, names, cat.Icon, cat.Kind, cat.IsActive,
		cat.UserID, cat.Kind,
		cat.CreatedAt, cat.UpdatedAt,
	).Scan(&cat.DisplayOrder)
	return translateError(err)
}

// UpdateCategory updates a category's names, icon and active flag
func (r *Repository) UpdateCategory(ctx context.Context, cat *models.Category) error {
	names, err := encodeNames(cat.Names)
	if err != nil {
		return err
	}
	cat.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET
			name = ?,
			names = ?,
			icon = ?,
			is_active = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`, cat.Name, names, cat.Icon, cat.IsActive, cat.UpdatedAt, cat.ID, cat.UserID)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(res)
}

// SetCategoryActive shows or hides a category without touching its history
func (r *Repository) SetCategoryActive(ctx context.Context, userID, categoryID string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET is_active = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`, active, time.Now(), categoryID, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ReorderCategories rewrites the display order of one kind of category.
// ids must list every category of that kind exactly once.
func (r *Repository) ReorderCategories(ctx context.Context, userID string, kind models.Kind, ids []string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := categoryIDs(ctx, tx, userID, kind)
		if err != nil {
			return err
		}
		if !sameSet(existing, ids) {
			return ErrOrderMismatch
		}

		stmt, err := tx.PrepareContext(ctx,
			`UPDATE categories SET display_order = ?, updated_at = ? WHERE id = ? AND user_id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		now := time.Now()
		for i, id := range ids {
			if _, err := stmt.ExecContext(ctx, i, now, id, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCategory removes a category and closes the gap in its kind's order.
// It returns ErrForeignKey while transactions still reference the category.
func (r *Repository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var kind models.Kind
		err := tx.QueryRowContext(ctx,
			`SELECT kind FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID).Scan(&kind)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID); err != nil {
			return translateError(err)
		}

		remaining, err := categoryIDs(ctx, tx, userID, kind)
		if err != nil {
			return err
		}
		for i, id := range remaining {
			if _, err := tx.ExecContext(ctx,
				`UPDATE categories SET display_order = ? WHERE id = ?`, i, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountTransactionsForCategory returns how many transactions reference a category
func (r *Repository) CountTransactionsForCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, categoryID).Scan(&count)
	return count, err
}

// SeedCategories inserts the default categories for a user exactly once.
// The seeded flag is claimed before inserting, so concurrent callers cannot
// both seed. It reports whether this call did the seeding.
func (r *Repository) SeedCategories(ctx context.Context, userID string, defaults []models.Category) (bool, error) {
	seeded := false
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET categories_seeded = 1, updated_at = ? WHERE id = ? AND categories_seeded = 0`,
			time.Now(), userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO categories (id, user_id, name, names, icon, kind, is_active, display_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		now := time.Now()
		order := map[models.Kind]int{}
		for i := range defaults {
			cat := &defaults[i]
			names, err := encodeNames(cat.Names)
			if err != nil {
				return err
			}
			cat.UserID = userID
			cat.DisplayOrder = order[cat.Kind]
			cat.CreatedAt, cat.UpdatedAt = now, now
			order[cat.Kind]++

			if _, err := stmt.ExecContext(ctx,
				cat.ID, userID, cat.Name, names, cat.Icon, cat.Kind, cat.IsActive,
				cat.DisplayOrder, now, now,
			); err != nil {
				return translateError(err)
			}
		}

		seeded = true
		return nil
	})
	return seeded, err
}

func categoryIDs(ctx context.Context, tx *sql.Tx, userID string, kind models.Kind) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM categories
		WHERE user_id = ? AND kind = ?
		ORDER BY display_order ASC, created_at ASC
	`, userID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
