package database

import (
	"context"
	"database/sql"
	"errors"
	"fintrack/models"
	"time"
)

// ==================== USER OPERATIONS ====================

const userColumns = `id, google_id, email, phone, name, picture, is_guest,
	categories_seeded, profile_synced_at, created_at, last_login_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var googleID sql.NullString
	var profileSyncedAt sql.NullTime

	err := row.Scan(
		&user.ID, &googleID, &user.Email, &user.Phone, &user.Name, &user.Picture,
		&user.IsGuest, &user.CategoriesSeeded, &profileSyncedAt,
		&user.CreatedAt, &user.LastLoginAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.GoogleID = googleID.String
	if profileSyncedAt.Valid {
		user.ProfileSyncedAt = &profileSyncedAt.Time
	}
	return &user, nil
}

// GetUser retrieves a user by ID. It returns nil when the user does not exist.
func (r *Repository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// GetUserByGoogleID retrieves the user linked to a Google account.
func (r *Repository) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = ?`, googleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// CreateUser inserts a new user record
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.LastLoginAt.IsZero() {
		user.LastLoginAt = now
	}
	user.UpdatedAt = now

	var googleID any
	if user.GoogleID != "" {
		googleID = user.GoogleID
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, google_id, email, phone, name, picture, is_guest,
			profile_synced_at, created_at, last_login_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID, googleID, user.Email, user.Phone, user.Name, user.Picture, user.IsGuest,
		user.ProfileSyncedAt, user.CreatedAt, user.LastLoginAt, user.UpdatedAt,
	)
	return translateError(err)
}

// LinkGoogleAccount attaches a Google identity to an existing (guest) user,
// keeping all of its categories and transactions.
func (r *Repository) LinkGoogleAccount(ctx context.Context, userID string, profile models.Profile) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			google_id = ?,
			email = ?,
			name = ?,
			picture = ?,
			is_guest = 0,
			profile_synced_at = ?,
			last_login_at = ?,
			updated_at = ?
		WHERE id = ?
	`, profile.GoogleID, profile.Email, profile.Name, profile.Picture, now, now, now, userID)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(res)
}

// UpdateProfile stores identity fields refreshed from the identity provider
func (r *Repository) UpdateProfile(ctx context.Context, userID string, profile models.Profile) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			email = ?,
			name = ?,
			picture = ?,
			profile_synced_at = ?,
			updated_at = ?
		WHERE id = ?
	`, profile.Email, profile.Name, profile.Picture, now, now, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// UpdateContact updates the user-editable contact fields
func (r *Repository) UpdateContact(ctx context.Context, userID, name, phone string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, phone = ?, updated_at = ? WHERE id = ?
	`, name, phone, time.Now(), userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// TouchLogin records a successful sign-in
func (r *Repository) TouchLogin(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now(), userID)
	return err
}

// DeleteUser removes a user; categories, transactions and sessions cascade.
func (r *Repository) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return translateError(err)
	}
	return expectAffected(res)
}

// GetUsersNeedingProfileSync returns Google-linked users whose profile was
// last refreshed before staleBefore, oldest first. Only users holding a live
// session with an OAuth token are returned, since nobody else can be synced.
func (r *Repository) GetUsersNeedingProfileSync(ctx context.Context, staleBefore time.Time, limit int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE google_id IS NOT NULL
		  AND (profile_synced_at IS NULL OR profile_synced_at < ?)
		  AND EXISTS (
			SELECT 1 FROM sessions s
			WHERE s.user_id = users.id AND s.access_token != '' AND s.expires_at > ?
		  )
		ORDER BY profile_synced_at ASC
		LIMIT ?
	`, staleBefore, time.Now(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}
