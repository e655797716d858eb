package sync

import (
	"context"

	"golang.org/x/oauth2"
)

// ==================== TOKEN REFRESH MANAGEMENT ====================

// updateTokenIfRefreshed writes a refreshed OAuth token back to the user's
// sessions when it differs from the one that was loaded
func (w *Worker) updateTokenIfRefreshed(ctx context.Context, userID string, original, current *oauth2.Token) {
	if current == nil {
		return
	}

	// Only update if the token actually changed
	if current.AccessToken == original.AccessToken && current.Expiry.Equal(original.Expiry) {
		return
	}

	w.logger.Info("token was refreshed, updating sessions", "user_id", userID)
	if err := w.tokens.UpdateUserToken(ctx, userID, current.AccessToken, current.RefreshToken, current.Expiry); err != nil {
		w.logger.Error("failed to update token in session", "user_id", userID, "error", err)
	}
}
