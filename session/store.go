package session

import (
	"context"
	"database/sql"
	"errors"
	"fintrack/models"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Lifetime is how long a session stays valid after creation.
const Lifetime = 30 * 24 * time.Hour

// Store persists sessions in the sessions table so they survive restarts.
type Store struct {
	db       *sql.DB
	stopOnce sync.Once
	stopChan chan struct{}
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		stopChan: make(chan struct{}),
	}
}

const sessionColumns = `id, user_id, access_token, refresh_token, token_expiry, expires_at, created_at, last_used_at`

func scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	var sess models.Session
	var tokenExpiry sql.NullTime
	if err := row.Scan(
		&sess.ID, &sess.UserID, &sess.AccessToken, &sess.RefreshToken,
		&tokenExpiry, &sess.ExpiresAt, &sess.CreatedAt, &sess.LastUsedAt,
	); err != nil {
		return nil, err
	}
	if tokenExpiry.Valid {
		sess.TokenExpiry = tokenExpiry.Time
	}
	return &sess, nil
}

// Create starts a session for userID. Token fields may be empty for guests.
func (s *Store) Create(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.Session, error) {
	now := time.Now()
	sess := &models.Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  tokenExpiry,
		ExpiresAt:    now.Add(Lifetime),
		CreatedAt:    now,
		LastUsedAt:   now,
	}

	var expiry any
	if !tokenExpiry.IsZero() {
		expiry = tokenExpiry
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, access_token, refresh_token, token_expiry, expires_at, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.UserID, sess.AccessToken, sess.RefreshToken, expiry, sess.ExpiresAt, sess.CreatedAt, sess.LastUsedAt)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session, or nil when it does not exist or has expired.
func (s *Store) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}
	return sess, nil
}

// GetByUserID returns the most recently used live session of a user that
// carries an OAuth token.
func (s *Store) GetByUserID(ctx context.Context, userID string) (*models.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE user_id = ? AND access_token != '' AND expires_at > ?
		ORDER BY last_used_at DESC
		LIMIT 1
	`, userID, time.Now()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return sess, err
}

// Touch records that the session was used
func (s *Store) Touch(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_used_at = ? WHERE id = ?`, time.Now(), sessionID)
	return err
}

// AttachToken stores OAuth tokens on an existing session. A guest that links
// a Google account through the code flow keeps its session this way.
func (s *Store) AttachToken(ctx context.Context, sessionID, accessToken, refreshToken string, tokenExpiry time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET access_token = ?, refresh_token = ?, token_expiry = ?, last_used_at = ?
		WHERE id = ?
	`, accessToken, refreshToken, tokenExpiry, time.Now(), sessionID)
	return err
}

// UpdateUserToken replaces the OAuth tokens on every session of a user.
// An empty refresh token keeps the stored one.
func (s *Store) UpdateUserToken(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			access_token = ?,
			refresh_token = CASE WHEN ? = '' THEN refresh_token ELSE ? END,
			token_expiry = ?
		WHERE user_id = ? AND access_token != ''
	`, accessToken, refreshToken, refreshToken, tokenExpiry, userID)
	return err
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// CleanupExpired removes expired sessions and returns how many were removed
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartCleanupRoutine purges expired sessions every hour until Stop is called
func (s *Store) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n, err := s.CleanupExpired(context.Background())
				if err != nil {
					slog.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					slog.Info("expired sessions removed", "count", n)
				}
			case <-s.stopChan:
				return
			}
		}
	}()
}

func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}
