package sync

import (
	"context"
	"fintrack/models"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ProfileRepository is the user storage the worker reads and updates
type ProfileRepository interface {
	GetUsersNeedingProfileSync(ctx context.Context, staleBefore time.Time, limit int) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) error
}

// TokenStore gives access to the OAuth tokens held in user sessions
type TokenStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Session, error)
	UpdateUserToken(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) error
}

// Identity fetches profiles from the identity provider
type Identity interface {
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*models.Profile, error)
}

// Worker keeps linked users' Google profiles fresh in the background.
// See domain-specific files:
// - executor.go: Core sync execution logic
// - retry.go: Retry spacing and error classification
// - token_manager.go: OAuth token refresh handling
type Worker struct {
	repo            ProfileRepository
	tokens          TokenStore
	identity        Identity
	staleAfter      time.Duration
	retryAfter      time.Duration
	batchSize       int
	baseInterval    time.Duration
	maxInterval     time.Duration
	currentInterval time.Duration
	running         bool
	mu              sync.Mutex
	attempts        map[string]time.Time
	stopChan        chan struct{}
	wg              sync.WaitGroup
	logger          *slog.Logger
}

// NewWorker creates a profile sync worker. Profiles older than staleAfter are
// refreshed.
func NewWorker(repo ProfileRepository, tokens TokenStore, identity Identity, staleAfter time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		repo:            repo,
		tokens:          tokens,
		identity:        identity,
		staleAfter:      staleAfter,
		retryAfter:      30 * time.Minute,
		batchSize:       50,
		baseInterval:    5 * time.Minute,  // Interval while there is work
		maxInterval:     30 * time.Minute, // Max interval when no work
		currentInterval: 5 * time.Minute,
		attempts:        make(map[string]time.Time),
		stopChan:        make(chan struct{}),
		logger:          logger.With("component", "profile_sync"),
	}
}

// Start begins the background sync worker
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("starting profile sync worker", "stale_after", w.staleAfter)

	w.wg.Add(1)
	go w.run()
}

// Stop gracefully stops the background sync worker and waits for the loop
// to exit
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.logger.Info("stopping profile sync worker")
	close(w.stopChan)
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

// SyncProfileImmediate refreshes one user's profile right away, e.g. after
// sign-in. It does not block.
func (w *Worker) SyncProfileImmediate(userID string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := w.syncUserProfile(ctx, userID); err != nil {
			w.logger.Warn("immediate profile sync failed", "user_id", userID, "error", err)
		}
	}()
}

// run is the main worker loop with adaptive backoff
func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.currentInterval)
	defer ticker.Stop()

	// Run immediately on start
	w.syncStaleProfiles()

	for {
		select {
		case <-ticker.C:
			hadWork := w.syncStaleProfiles()

			// Adaptive backoff: increase interval when no work, reset when there's work
			w.mu.Lock()
			if hadWork {
				if w.currentInterval != w.baseInterval {
					w.currentInterval = w.baseInterval
					ticker.Reset(w.currentInterval)
					w.logger.Debug("work found, reset interval", "interval", w.currentInterval)
				}
			} else if w.currentInterval < w.maxInterval {
				w.currentInterval = w.maxInterval
				ticker.Reset(w.currentInterval)
				w.logger.Debug("no work, increased interval", "interval", w.currentInterval)
			}
			w.mu.Unlock()
		case <-w.stopChan:
			return
		}
	}
}
