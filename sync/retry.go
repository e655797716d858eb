package sync

import (
	"strings"
	"time"
)

// ==================== RETRY SPACING ====================

// dueForAttempt drops users that failed a sync less than retryAfter ago, so a
// broken account is not retried on every tick
func (w *Worker) dueForAttempt(userIDs []string, now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	due := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if last, ok := w.attempts[id]; ok && now.Sub(last) < w.retryAfter {
			continue
		}
		due = append(due, id)
	}
	return due
}

func (w *Worker) recordAttempt(userID string, at time.Time) {
	w.mu.Lock()
	w.attempts[userID] = at
	w.mu.Unlock()
}

func (w *Worker) clearAttempt(userID string) {
	w.mu.Lock()
	delete(w.attempts, userID)
	w.mu.Unlock()
}

// isTokenExpiredError checks if an error is related to token expiration
func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "token expired") ||
		strings.Contains(errMsg, "Token has been expired") ||
		strings.Contains(errMsg, "invalid_grant") ||
		strings.Contains(errMsg, "401")
}
