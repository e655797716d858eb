// Package identity talks to Google for sign-in and profile data.
package identity

import (
	"context"
	"errors"
	"fintrack/models"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrInvalidIDToken  = errors.New("invalid id token")
	ErrIncompleteClaim = errors.New("identity is missing subject or email")
)

// Scopes requested during the authorization-code flow
var Scopes = []string{
	oauth2api.UserinfoEmailScope,
	oauth2api.UserinfoProfileScope,
	"openid",
}

// Google verifies Google identities and reads profiles
type Google struct {
	clientID string
	oauth    *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		clientID: clientID,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL returns the consent page URL. Offline access is requested so a
// refresh token comes back.
func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// VerifyIDToken validates a Google ID token (One Tap / Sign-In button)
func (g *Google) VerifyIDToken(ctx context.Context, idToken string) (*models.Profile, error) {
	payload, err := idtoken.Validate(ctx, idToken, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	if payload.Subject == "" || email == "" {
		return nil, ErrIncompleteClaim
	}

	return &models.Profile{
		GoogleID: payload.Subject,
		Email:    email,
		Name:     name,
		Picture:  picture,
	}, nil
}

// Exchange trades an authorization code for tokens
func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.oauth.Exchange(ctx, code, oauth2.AccessTypeOffline)
}

// Refresh returns token unchanged while it is valid, otherwise a new one
// obtained with its refresh token
func (g *Google) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	return g.oauth.TokenSource(ctx, token).Token()
}

// FetchProfile reads the userinfo endpoint with token
func (g *Google) FetchProfile(ctx context.Context, token *oauth2.Token) (*models.Profile, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get userinfo: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return nil, ErrIncompleteClaim
	}

	return &models.Profile{
		GoogleID: info.Id,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}
