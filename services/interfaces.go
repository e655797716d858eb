package services

import (
	"context"
	"fintrack/live"
	"fintrack/models"
	"time"

	"golang.org/x/oauth2"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	GetCategories(ctx context.Context, userID string, kind models.Kind, includeInactive bool) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	GetCategoryByName(ctx context.Context, userID string, kind models.Kind, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, cat *models.Category) error
	UpdateCategory(ctx context.Context, cat *models.Category) error
	SetCategoryActive(ctx context.Context, userID, categoryID string, active bool) error
	ReorderCategories(ctx context.Context, userID string, kind models.Kind, ids []string) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	CountTransactionsForCategory(ctx context.Context, categoryID string) (int, error)
	SeedCategories(ctx context.Context, userID string, defaults []models.Category) (bool, error)
}

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
}

// ReportRepository defines the aggregate queries reports are built from
type ReportRepository interface {
	SumByKind(ctx context.Context, userID, from, to string) (income, expense models.Amount, count int, err error)
	SumByCategory(ctx context.Context, userID string, kind models.Kind, from, to string) ([]models.CategoryTotal, error)
	DailyTotals(ctx context.Context, userID, from, to string) ([]models.DayTotal, error)
	BalanceBefore(ctx context.Context, userID, day string) (int64, error)
	MonthlyTotals(ctx context.Context, userID string, year int) ([]models.MonthTotal, error)
	ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	LinkGoogleAccount(ctx context.Context, userID string, profile models.Profile) error
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) error
	UpdateContact(ctx context.Context, userID, name, phone string) error
	TouchLogin(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
}

// CategorySeeder gives a user the default categories once.
// Production uses CategoryService.
type CategorySeeder interface {
	EnsureDefaults(ctx context.Context, userID string) (bool, error)
}

// SessionStore defines the interface for session management
type SessionStore interface {
	Create(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Delete(ctx context.Context, sessionID string) error
	AttachToken(ctx context.Context, sessionID, accessToken, refreshToken string, tokenExpiry time.Time) error
	UpdateUserToken(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) error
}

// IdentityProvider verifies Google identities.
// Production uses identity.Google.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	VerifyIDToken(ctx context.Context, idToken string) (*models.Profile, error)
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*models.Profile, error)
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

// ProfileSyncer refreshes a user's Google profile in the background
type ProfileSyncer interface {
	SyncProfileImmediate(userID string)
}

// Publisher announces data changes to live subscribers
type Publisher interface {
	Publish(topics ...live.Topic)
}

type noopPublisher struct{}

func (noopPublisher) Publish(...live.Topic) {}
