package services

import (
	"context"
	"errors"
	"fintrack/database"
	"fintrack/models"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const guestName = "Guest"

// AuthService handles authentication business logic
type AuthService struct {
	repo         UserRepository
	sessionStore SessionStore
	categories   CategorySeeder
	identity     IdentityProvider
	syncer       ProfileSyncer
	allowGuest   bool
}

// NewAuthService creates a new auth service. identity is nil when Google
// sign-in is not configured; syncer may be nil.
func NewAuthService(repo UserRepository, sessionStore SessionStore, categories CategorySeeder, identity IdentityProvider, syncer ProfileSyncer, allowGuest bool) *AuthService {
	return &AuthService{
		repo:         repo,
		sessionStore: sessionStore,
		categories:   categories,
		identity:     identity,
		syncer:       syncer,
		allowGuest:   allowGuest,
	}
}

// LoginResponse contains the session and additional login metadata
type LoginResponse struct {
	Session *models.Session
	User    *models.User
	// IsNewUser is true when the sign-in created the account
	IsNewUser bool
	// Upgraded is true when a guest account was linked to Google
	Upgraded bool
}

// SessionInfo is the current session together with its user
type SessionInfo struct {
	Session *models.Session `json:"session"`
	User    *models.User    `json:"user"`
}

// GoogleEnabled reports whether Google sign-in is available
func (as *AuthService) GoogleEnabled() bool {
	return as.identity != nil
}

func (as *AuthService) GuestEnabled() bool {
	return as.allowGuest
}

// AuthCodeURL returns the Google consent URL for state
func (as *AuthService) AuthCodeURL(state string) (string, error) {
	if as.identity == nil {
		return "", ErrIdentityUnavailable
	}
	return as.identity.AuthCodeURL(state), nil
}

// StartGuest creates a guest account with the default categories and signs
// it in
func (as *AuthService) StartGuest(ctx context.Context) (*LoginResponse, error) {
	if !as.allowGuest {
		return nil, ErrGuestDisabled
	}

	user := &models.User{
		ID:      uuid.New().String(),
		Name:    guestName,
		IsGuest: true,
	}
	if err := as.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create guest user: %w", err)
	}

	if _, err := as.categories.EnsureDefaults(ctx, user.ID); err != nil {
		return nil, err
	}

	sess, err := as.sessionStore.Create(ctx, user.ID, "", "", time.Time{})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Session: sess, User: user, IsNewUser: true}, nil
}

// LoginWithIDToken handles login via a Google Sign-In ID token.
// currentSessionID is the caller's existing session, if any; a guest session
// is upgraded in place.
func (as *AuthService) LoginWithIDToken(ctx context.Context, idToken, currentSessionID string) (*LoginResponse, error) {
	if as.identity == nil {
		return nil, ErrIdentityUnavailable
	}

	profile, err := as.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		slog.Warn("id token rejected", "error", err)
		return nil, ErrInvalidToken
	}

	// ID tokens carry no API access, so the session holds no OAuth token
	return as.signIn(ctx, profile, nil, currentSessionID)
}

// LoginWithCode handles login via OAuth authorization code
func (as *AuthService) LoginWithCode(ctx context.Context, code, currentSessionID string) (*LoginResponse, error) {
	if as.identity == nil {
		return nil, ErrIdentityUnavailable
	}

	// Exchange authorization code for tokens
	token, err := as.identity.Exchange(ctx, code)
	if err != nil {
		slog.Warn("authorization code exchange failed", "error", err)
		return nil, ErrInvalidAuthCode
	}

	profile, err := as.identity.FetchProfile(ctx, token)
	if err != nil {
		slog.Warn("failed to fetch google profile", "error", err)
		return nil, ErrInvalidUserInfo
	}

	return as.signIn(ctx, profile, token, currentSessionID)
}

// LoginWithToken handles login with an access token obtained by the client
func (as *AuthService) LoginWithToken(ctx context.Context, accessToken, refreshToken string, expiresIn int64, currentSessionID string) (*LoginResponse, error) {
	if as.identity == nil {
		return nil, ErrIdentityUnavailable
	}

	tokenExpiry := time.Now().Add(1 * time.Hour)
	if expiresIn > 0 {
		tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Expiry:       tokenExpiry,
		TokenType:    "Bearer",
	}

	profile, err := as.identity.FetchProfile(ctx, token)
	if err != nil {
		slog.Warn("access token rejected", "error", err)
		return nil, ErrInvalidToken
	}

	return as.signIn(ctx, profile, token, currentSessionID)
}

// signIn resolves the account for a verified Google profile, seeds its
// categories and opens a session.
func (as *AuthService) signIn(ctx context.Context, profile *models.Profile, token *oauth2.Token, currentSessionID string) (*LoginResponse, error) {
	if profile == nil || profile.GoogleID == "" || profile.Email == "" {
		return nil, ErrInvalidUserInfo
	}

	resp := &LoginResponse{}
	var guestSession *models.Session

	user, err := as.repo.GetUserByGoogleID(ctx, profile.GoogleID)
	if err != nil {
		return nil, err
	}

	switch {
	case user != nil:
		if err := as.repo.UpdateProfile(ctx, user.ID, *profile); err != nil {
			return nil, err
		}
		if err := as.repo.TouchLogin(ctx, user.ID); err != nil {
			return nil, err
		}

	default:
		guest, sess, err := as.currentGuest(ctx, currentSessionID)
		if err != nil {
			return nil, err
		}

		if guest != nil {
			if err := as.repo.LinkGoogleAccount(ctx, guest.ID, *profile); err != nil {
				return nil, fmt.Errorf("link google account: %w", err)
			}
			user = guest
			guestSession = sess
			resp.Upgraded = true
		} else {
			user = &models.User{
				ID:       uuid.New().String(),
				GoogleID: profile.GoogleID,
				Email:    profile.Email,
				Name:     profile.Name,
				Picture:  profile.Picture,
			}
			if err := as.repo.CreateUser(ctx, user); err != nil {
				if errors.Is(err, database.ErrDuplicate) {
					// Lost a race with a concurrent first sign-in
					return as.signIn(ctx, profile, token, "")
				}
				return nil, fmt.Errorf("create user: %w", err)
			}
			resp.IsNewUser = true
		}
	}

	if _, err := as.categories.EnsureDefaults(ctx, user.ID); err != nil {
		return nil, err
	}

	sess, err := as.openSession(ctx, user.ID, token, guestSession, currentSessionID)
	if err != nil {
		return nil, err
	}

	// Reload so the response reflects linking and profile updates
	if fresh, err := as.repo.GetUser(ctx, user.ID); err == nil && fresh != nil {
		user = fresh
	}

	if token != nil && as.syncer != nil {
		as.syncer.SyncProfileImmediate(user.ID)
	}

	resp.Session = sess
	resp.User = user
	return resp, nil
}

// openSession signs userID in. An upgraded guest keeps its session and only
// gains the OAuth token; anyone else gets a new session that replaces
// currentSessionID.
func (as *AuthService) openSession(ctx context.Context, userID string, token *oauth2.Token, guestSession *models.Session, currentSessionID string) (*models.Session, error) {
	var accessToken, refreshToken string
	var tokenExpiry time.Time
	if token != nil {
		accessToken, refreshToken, tokenExpiry = token.AccessToken, token.RefreshToken, token.Expiry
	}

	if guestSession != nil {
		if token != nil {
			if err := as.sessionStore.AttachToken(ctx, guestSession.ID, accessToken, refreshToken, tokenExpiry); err != nil {
				return nil, err
			}
			guestSession.AccessToken = accessToken
			guestSession.RefreshToken = refreshToken
			guestSession.TokenExpiry = tokenExpiry
		}
		return guestSession, nil
	}

	sess, err := as.sessionStore.Create(ctx, userID, accessToken, refreshToken, tokenExpiry)
	if err != nil {
		return nil, err
	}

	if currentSessionID != "" {
		if err := as.sessionStore.Delete(ctx, currentSessionID); err != nil {
			slog.Warn("failed to end previous session", "error", err)
		}
	}
	return sess, nil
}

// currentGuest returns the guest user behind sessionID with that session, or
// nil
func (as *AuthService) currentGuest(ctx context.Context, sessionID string) (*models.User, *models.Session, error) {
	if sessionID == "" {
		return nil, nil, nil
	}
	sess, err := as.sessionStore.Get(ctx, sessionID)
	if err != nil || sess == nil {
		return nil, nil, err
	}
	user, err := as.repo.GetUser(ctx, sess.UserID)
	if err != nil || user == nil || !user.IsGuest {
		return nil, nil, err
	}
	return user, sess, nil
}

// Logout handles user logout
func (as *AuthService) Logout(ctx context.Context, sessionID string) error {
	return as.sessionStore.Delete(ctx, sessionID)
}

// GetSessionInfo returns current session information
func (as *AuthService) GetSessionInfo(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := as.sessionStore.Get(ctx, sessionID)
	if err != nil || sess == nil {
		return nil, ErrSessionNotFound
	}
	user, err := as.repo.GetUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return &SessionInfo{Session: sess, User: user}, nil
}

// UpdateProfile changes the user-editable contact fields
func (as *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := as.repo.UpdateContact(ctx, userID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user, err := as.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteAccount removes the user with all categories, transactions and
// sessions
func (as *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := as.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// RefreshTokenIfNeeded checks if the access token is expiring soon and refreshes it if needed.
// Returns the updated token or the original if no refresh was needed
func (as *AuthService) RefreshTokenIfNeeded(ctx context.Context, session *models.Session) (*oauth2.Token, error) {
	current := &oauth2.Token{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Expiry:       session.TokenExpiry,
		TokenType:    "Bearer",
	}

	// If token expires in less than 5 minutes, refresh it
	if time.Until(session.TokenExpiry) > 5*time.Minute {
		return current, nil
	}

	if session.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	if as.identity == nil {
		return nil, ErrIdentityUnavailable
	}

	newToken, err := as.identity.Refresh(ctx, current)
	if err != nil {
		slog.Warn("token refresh failed", "user_id", session.UserID, "error", err)
		return nil, ErrTokenRefreshFailed
	}

	if err := as.sessionStore.UpdateUserToken(ctx, session.UserID, newToken.AccessToken, newToken.RefreshToken, newToken.Expiry); err != nil {
		// The token is still usable even if we couldn't save it
		slog.Error("failed to store refreshed token", "user_id", session.UserID, "error", err)
	}

	session.AccessToken = newToken.AccessToken
	if newToken.RefreshToken != "" {
		session.RefreshToken = newToken.RefreshToken
	}
	session.TokenExpiry = newToken.Expiry

	return newToken, nil
}
