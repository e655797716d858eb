package setup

import (
	"fintrack/app"
	"fintrack/config"
	"fintrack/database"
	"fintrack/identity"
	"fintrack/live"
	"fintrack/preferences"
	"fintrack/services"
	"fintrack/session"
	"fintrack/sync"
	"log/slog"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// InitApp initializes the application with all dependencies
func InitApp(db *database.DB, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	repo := database.NewRepository(db)
	hub := live.NewHub()

	// Initialize session store with database
	sessionStore := session.NewStore(db.DB)
	sessionStore.StartCleanupRoutine()
	logger.Info("session cleanup routine started")

	prefs, err := preferences.Open(cfg.PrefsPath, hub)
	if err != nil {
		return nil, err
	}
	logger.Info("preferences loaded", "path", cfg.PrefsPath)

	var provider services.IdentityProvider
	var profileSync *sync.Worker
	if cfg.GoogleEnabled() {
		google := identity.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		provider = google

		profileSync = sync.NewWorker(repo, sessionStore, google, cfg.ProfileSyncInterval, logger)
		profileSync.Start()
		logger.Info("profile sync worker started")
	} else {
		logger.Warn("google sign-in disabled: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET missing")
	}

	application := app.New(repo, sessionStore, prefs, hub, provider, profileSync, cfg.AllowGuest, logger)
	logger.Info("application initialized with dependency injection")

	return application, nil
}

// Shutdown performs graceful shutdown of all services
func Shutdown(application *app.App, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application != nil {
		if application.ProfileSync != nil {
			application.ProfileSync.Stop()
			logger.Info("profile sync worker stopped")
		}
		application.SessionStore.Stop()
		application.Hub.Close()
	}

	// Close database
	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
