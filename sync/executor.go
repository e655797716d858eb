package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// ==================== SYNC EXECUTION ====================

var ErrNoToken = errors.New("user has no session with an oauth token")

// syncStaleProfiles refreshes a batch of stale profiles.
// Returns true if work was found, false otherwise
func (w *Worker) syncStaleProfiles() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	users, err := w.repo.GetUsersNeedingProfileSync(ctx, time.Now().Add(-w.staleAfter), w.batchSize)
	if err != nil {
		w.logger.Error("failed to load stale profiles", "error", err)
		return false
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	due := w.dueForAttempt(ids, time.Now())
	if len(due) == 0 {
		return false
	}

	w.logger.Info("refreshing stale profiles", "count", len(due))

	synced, failed := 0, 0
	for _, userID := range due {
		if err := w.syncUserProfile(ctx, userID); err != nil {
			failed++
			w.logger.Warn("profile sync failed", "user_id", userID, "error", err, "token_expired", isTokenExpiredError(err))
			continue
		}
		synced++
	}

	if synced > 0 || failed > 0 {
		w.logger.Info("profile sync complete", "synced", synced, "failed", failed)
	}
	return true
}

// syncUserProfile refreshes one user's profile with the token of their most
// recent session
func (w *Worker) syncUserProfile(ctx context.Context, userID string) error {
	w.recordAttempt(userID, time.Now())

	sess, err := w.tokens.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session token: %w", err)
	}
	if !sess.HasToken() {
		return ErrNoToken
	}

	original := &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Expiry:       sess.TokenExpiry,
		TokenType:    "Bearer",
	}

	token, err := w.identity.Refresh(ctx, original)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	w.updateTokenIfRefreshed(ctx, userID, original, token)

	profile, err := w.identity.FetchProfile(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	if err := w.repo.UpdateProfile(ctx, userID, *profile); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}

	w.clearAttempt(userID)
	return nil
}
