package services

import (
	"context"
	"fintrack/live"
	"fintrack/models"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

// ==================== REPOSITORY ====================

// MockRepository is a mock implementation of every repository interface the
// services depend on
type MockRepository struct {
	mock.Mock
}

var (
	_ CategorySeeder        = (*CategoryService)(nil)
	_ CategoryRepository    = (*MockRepository)(nil)
	_ TransactionRepository = (*MockRepository)(nil)
	_ ReportRepository      = (*MockRepository)(nil)
	_ UserRepository        = (*MockRepository)(nil)
	_ ExportRepository      = (*MockRepository)(nil)
)

func (m *MockRepository) GetCategories(ctx context.Context, userID string, kind models.Kind, includeInactive bool) ([]models.Category, error) {
	args := m.Called(ctx, userID, kind, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockRepository) GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockRepository) GetCategoryByName(ctx context.Context, userID string, kind models.Kind, name string) (*models.Category, error) {
	args := m.Called(ctx, userID, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockRepository) CreateCategory(ctx context.Context, cat *models.Category) error {
	return m.Called(ctx, cat).Error(0)
}

func (m *MockRepository) UpdateCategory(ctx context.Context, cat *models.Category) error {
	return m.Called(ctx, cat).Error(0)
}

func (m *MockRepository) SetCategoryActive(ctx context.Context, userID, categoryID string, active bool) error {
	return m.Called(ctx, userID, categoryID, active).Error(0)
}

func (m *MockRepository) ReorderCategories(ctx context.Context, userID string, kind models.Kind, ids []string) error {
	return m.Called(ctx, userID, kind, ids).Error(0)
}

func (m *MockRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return m.Called(ctx, userID, categoryID).Error(0)
}

func (m *MockRepository) CountTransactionsForCategory(ctx context.Context, categoryID string) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) SeedCategories(ctx context.Context, userID string, defaults []models.Category) (bool, error) {
	args := m.Called(ctx, userID, defaults)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockRepository) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockRepository) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return m.Called(ctx, userID, transactionID).Error(0)
}

func (m *MockRepository) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockRepository) SumByKind(ctx context.Context, userID, from, to string) (models.Amount, models.Amount, int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(models.Amount), args.Get(1).(models.Amount), args.Int(2), args.Error(3)
}

func (m *MockRepository) SumByCategory(ctx context.Context, userID string, kind models.Kind, from, to string) ([]models.CategoryTotal, error) {
	args := m.Called(ctx, userID, kind, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryTotal), args.Error(1)
}

func (m *MockRepository) DailyTotals(ctx context.Context, userID, from, to string) ([]models.DayTotal, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DayTotal), args.Error(1)
}

func (m *MockRepository) BalanceBefore(ctx context.Context, userID, day string) (int64, error) {
	args := m.Called(ctx, userID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MonthlyTotals(ctx context.Context, userID string, year int) ([]models.MonthTotal, error) {
	args := m.Called(ctx, userID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthTotal), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockRepository) LinkGoogleAccount(ctx context.Context, userID string, profile models.Profile) error {
	return m.Called(ctx, userID, profile).Error(0)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, userID string, profile models.Profile) error {
	return m.Called(ctx, userID, profile).Error(0)
}

func (m *MockRepository) UpdateContact(ctx context.Context, userID, name, phone string) error {
	return m.Called(ctx, userID, name, phone).Error(0)
}

func (m *MockRepository) TouchLogin(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRepository) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// ==================== SESSIONS ====================

// MockSessionStore is a mock implementation of SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

var _ SessionStore = (*MockSessionStore)(nil)

func (m *MockSessionStore) Create(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) (*models.Session, error) {
	args := m.Called(ctx, userID, accessToken, refreshToken, tokenExpiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockSessionStore) AttachToken(ctx context.Context, sessionID, accessToken, refreshToken string, tokenExpiry time.Time) error {
	return m.Called(ctx, sessionID, accessToken, refreshToken, tokenExpiry).Error(0)
}

func (m *MockSessionStore) UpdateUserToken(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) error {
	return m.Called(ctx, userID, accessToken, refreshToken, tokenExpiry).Error(0)
}

// ==================== IDENTITY ====================

// MockIdentityProvider is a mock implementation of IdentityProvider interface
type MockIdentityProvider struct {
	mock.Mock
}

var _ IdentityProvider = (*MockIdentityProvider)(nil)

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockIdentityProvider) VerifyIDToken(ctx context.Context, idToken string) (*models.Profile, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockIdentityProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*models.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockIdentityProvider) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

// MockProfileSyncer is a mock implementation of ProfileSyncer interface
type MockProfileSyncer struct {
	mock.Mock
}

var _ ProfileSyncer = (*MockProfileSyncer)(nil)

func (m *MockProfileSyncer) SyncProfileImmediate(userID string) {
	m.Called(userID)
}

// ==================== PUBLISHER ====================

// recordingPublisher keeps every published topic
type recordingPublisher struct {
	mu     sync.Mutex
	topics []live.Topic
}

var _ Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(topics ...live.Topic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topics...)
}

func (p *recordingPublisher) published() []live.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]live.Topic(nil), p.topics...)
}
