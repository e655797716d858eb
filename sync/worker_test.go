package sync

import (
	"context"
	"errors"
	"fintrack/models"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// ==================== MOCKS ====================

type MockProfileRepository struct {
	mock.Mock
}

var _ ProfileRepository = (*MockProfileRepository)(nil)

func (m *MockProfileRepository) GetUsersNeedingProfileSync(ctx context.Context, staleBefore time.Time, limit int) ([]models.User, error) {
	args := m.Called(ctx, staleBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, userID string, profile models.Profile) error {
	args := m.Called(ctx, userID, profile)
	return args.Error(0)
}

type MockTokenStore struct {
	mock.Mock
}

var _ TokenStore = (*MockTokenStore)(nil)

func (m *MockTokenStore) GetByUserID(ctx context.Context, userID string) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockTokenStore) UpdateUserToken(ctx context.Context, userID, accessToken, refreshToken string, tokenExpiry time.Time) error {
	args := m.Called(ctx, userID, accessToken, refreshToken, tokenExpiry)
	return args.Error(0)
}

type MockIdentity struct {
	mock.Mock
}

var _ Identity = (*MockIdentity)(nil)

func (m *MockIdentity) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockIdentity) FetchProfile(ctx context.Context, token *oauth2.Token) (*models.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func newTestWorker() (*Worker, *MockProfileRepository, *MockTokenStore, *MockIdentity) {
	repo := new(MockProfileRepository)
	tokens := new(MockTokenStore)
	identity := new(MockIdentity)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(repo, tokens, identity, 6*time.Hour, logger), repo, tokens, identity
}

// ==================== TESTS ====================

func TestSyncUserProfile(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	session := &models.Session{UserID: "u1", AccessToken: "access", RefreshToken: "refresh", TokenExpiry: expiry}
	profile := &models.Profile{GoogleID: "g1", Email: "a@example.com", Name: "Ada"}

	tests := []struct {
		name        string
		mockSetup   func(repo *MockProfileRepository, tokens *MockTokenStore, identity *MockIdentity)
		expectedErr error
		wantErr     bool
	}{
		{
			name: "Token still valid",
			mockSetup: func(repo *MockProfileRepository, tokens *MockTokenStore, identity *MockIdentity) {
				tokens.On("GetByUserID", mock.Anything, "u1").Return(session, nil)
				identity.On("Refresh", mock.Anything, mock.Anything).
					Return(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: expiry}, nil)
				identity.On("FetchProfile", mock.Anything, mock.Anything).Return(profile, nil)
				repo.On("UpdateProfile", mock.Anything, "u1", *profile).Return(nil)
			},
		},
		{
			name: "Refreshed token is written back",
			mockSetup: func(repo *MockProfileRepository, tokens *MockTokenStore, identity *MockIdentity) {
				newExpiry := expiry.Add(time.Hour)
				tokens.On("GetByUserID", mock.Anything, "u1").Return(session, nil)
				identity.On("Refresh", mock.Anything, mock.Anything).
					Return(&oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh", Expiry: newExpiry}, nil)
				tokens.On("UpdateUserToken", mock.Anything, "u1", "access-2", "refresh", newExpiry).Return(nil)
				identity.On("FetchProfile", mock.Anything, mock.Anything).Return(profile, nil)
				repo.On("UpdateProfile", mock.Anything, "u1", *profile).Return(nil)
			},
		},
		{
			name: "No token session",
			mockSetup: func(repo *MockProfileRepository, tokens *MockTokenStore, identity *MockIdentity) {
				tokens.On("GetByUserID", mock.Anything, "u1").Return(nil, nil)
			},
			expectedErr: ErrNoToken,
			wantErr:     true,
		},
		{
			name: "Provider failure",
			mockSetup: func(repo *MockProfileRepository, tokens *MockTokenStore, identity *MockIdentity) {
				tokens.On("GetByUserID", mock.Anything, "u1").Return(session, nil)
				identity.On("Refresh", mock.Anything, mock.Anything).Return(nil, errors.New("oauth2: invalid_grant"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, repo, tokens, identity := newTestWorker()
			tt.mockSetup(repo, tokens, identity)

			err := w.syncUserProfile(context.Background(), "u1")
			if tt.wantErr {
				require.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				_, pending := w.attempts["u1"]
				assert.True(t, pending, "failed attempt must be remembered")
			} else {
				require.NoError(t, err)
				assert.Empty(t, w.attempts)
			}

			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
			identity.AssertExpectations(t)
		})
	}
}

func TestSyncStaleProfilesSkipsRecentFailures(t *testing.T) {
	w, repo, _, _ := newTestWorker()
	w.recordAttempt("u1", time.Now())

	repo.On("GetUsersNeedingProfileSync", mock.Anything, mock.Anything, 50).
		Return([]models.User{{ID: "u1"}}, nil)

	assert.False(t, w.syncStaleProfiles())
	repo.AssertExpectations(t)
}

func TestDueForAttempt(t *testing.T) {
	w, _, _, _ := newTestWorker()
	now := time.Now()
	w.recordAttempt("recent", now.Add(-time.Minute))
	w.recordAttempt("old", now.Add(-time.Hour))

	due := w.dueForAttempt([]string{"recent", "old", "new"}, now)
	assert.Equal(t, []string{"old", "new"}, due)
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, isTokenExpiredError(nil))
	assert.True(t, isTokenExpiredError(errors.New("oauth2: invalid_grant")))
	assert.True(t, isTokenExpiredError(errors.New("googleapi: Error 401")))
	assert.False(t, isTokenExpiredError(errors.New("connection refused")))
}

func TestStartStop(t *testing.T) {
	w, repo, _, _ := newTestWorker()
	repo.On("GetUsersNeedingProfileSync", mock.Anything, mock.Anything, 50).Return([]models.User{}, nil)

	w.Start()
	w.Start()
	w.Stop()
	w.Stop()
}
