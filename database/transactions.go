package database

import (
	"context"
	"database/sql"
	"errors"
	"fintrack/models"
	"time"
)

// ==================== TRANSACTION OPERATIONS ====================

const transactionColumns = `id, user_id, category_id, amount, kind, date, note, created_at, updated_at`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	if err := row.Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Kind,
		&t.Date, &t.Note, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTransaction inserts a transaction. A missing user or category
// surfaces as ErrForeignKey.
func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, category_id, amount, kind, date, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.UserID, t.CategoryID, t.Amount, t.Kind, t.Date, t.Note, t.CreatedAt, t.UpdatedAt,
	)
	return translateError(err)
}

// GetTransaction retrieves one of the user's transactions; nil when missing.
func (r *Repository) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		transactionID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// UpdateTransaction rewrites the editable fields of a transaction
func (r *Repository) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET
			category_id = ?,
			amount = ?,
			kind = ?,
			date = ?,
			note = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`, t.CategoryID, t.Amount, t.Kind, t.Date, t.Note, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(res)
}

// DeleteTransaction permanently removes a transaction
func (r *Repository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ListTransactions returns the user's transactions newest first
func (r *Repository) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}

	query, args = appendDateRange(query, args, "date", filter.From, filter.To)
	if filter.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, filter.Kind)
	}
	if filter.Search != "" {
		query += ` AND note LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
