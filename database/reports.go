package database

import (
	"context"
	"fintrack/models"
	"fmt"
)

// ==================== AGGREGATE QUERIES ====================

// SumByKind totals income and expense for the user within a date range
func (r *Repository) SumByKind(ctx context.Context, userID, from, to string) (income, expense models.Amount, count int, err error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount END), 0),
			COUNT(*)
		FROM transactions
		WHERE user_id = ?`
	args := []any{userID}
	query, args = appendDateRange(query, args, "date", from, to)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&income, &expense, &count)
	return income, expense, count, err
}

// SumByCategory totals one kind of transaction per category, largest first
func (r *Repository) SumByCategory(ctx context.Context, userID string, kind models.Kind, from, to string) ([]models.CategoryTotal, error) {
	query := `
		SELECT c.id, c.name, c.names, c.icon, c.kind, SUM(t.amount), COUNT(t.id)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.kind = ?`
	args := []any{userID, kind}
	query, args = appendDateRange(query, args, "t.date", from, to)
	query += `
		GROUP BY c.id
		ORDER BY SUM(t.amount) DESC, c.display_order ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]models.CategoryTotal, 0)
	for rows.Next() {
		var ct models.CategoryTotal
		var names string
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &names, &ct.Icon, &ct.Kind, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		if err := decodeNames(names, &ct.Names); err != nil {
			return nil, fmt.Errorf("decode names of category %s: %w", ct.CategoryID, err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// DailyTotals returns per-day income and expense, oldest first.
// Days without transactions are omitted.
func (r *Repository) DailyTotals(ctx context.Context, userID, from, to string) ([]models.DayTotal, error) {
	query := `
		SELECT date,
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount END), 0)
		FROM transactions
		WHERE user_id = ?`
	args := []any{userID}
	query, args = appendDateRange(query, args, "date", from, to)
	query += ` GROUP BY date ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]models.DayTotal, 0)
	for rows.Next() {
		var d models.DayTotal
		if err := rows.Scan(&d.Date, &d.Income, &d.Expense); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// BalanceBefore returns income minus expense over all days strictly before day
func (r *Repository) BalanceBefore(ctx context.Context, userID, day string) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN kind = 'income' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE user_id = ? AND date < ?
	`, userID, day).Scan(&balance)
	return balance, err
}

// MonthlyTotals returns one bucket per month of year that has transactions
func (r *Repository) MonthlyTotals(ctx context.Context, userID string, year int) ([]models.MonthTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(substr(date, 6, 2) AS INTEGER) AS month,
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount END), 0)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		GROUP BY month
		ORDER BY month ASC
	`, userID, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := make([]models.MonthTotal, 0)
	for rows.Next() {
		var m models.MonthTotal
		if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
			return nil, err
		}
		m.Net = int64(m.Income) - int64(m.Expense)
		months = append(months, m)
	}
	return months, rows.Err()
}
