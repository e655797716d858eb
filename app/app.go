package app

import (
	"fintrack/database"
	"fintrack/live"
	"fintrack/preferences"
	"fintrack/services"
	"fintrack/session"
	"fintrack/sync"
	"fintrack/validator"
	"log/slog"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo         *database.Repository
	SessionStore *session.Store
	Preferences  *preferences.Store
	Hub          *live.Hub
	ProfileSync  *sync.Worker
	Validator    *validator.Validator
	Logger       *slog.Logger

	Auth         *services.AuthService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Reports      *services.ReportService
	Export       *services.ExportService
}

// New creates a new App instance with all dependencies. identity and
// profileSync are nil when Google sign-in is not configured.
func New(
	repo *database.Repository,
	sessionStore *session.Store,
	prefs *preferences.Store,
	hub *live.Hub,
	identity services.IdentityProvider,
	profileSync *sync.Worker,
	allowGuest bool,
	logger *slog.Logger,
) *App {
	var syncer services.ProfileSyncer
	if profileSync != nil {
		syncer = profileSync
	}

	categories := services.NewCategoryService(repo, hub)

	return &App{
		Repo:         repo,
		SessionStore: sessionStore,
		Preferences:  prefs,
		Hub:          hub,
		ProfileSync:  profileSync,
		Validator:    validator.New(),
		Logger:       logger,

		Auth:         services.NewAuthService(repo, sessionStore, categories, identity, syncer, allowGuest),
		Categories:   categories,
		Transactions: services.NewTransactionService(repo, hub),
		Reports:      services.NewReportService(repo),
		Export:       services.NewExportService(repo),
	}
}
