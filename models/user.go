package models

import "time"

type User struct {
	ID               string     `json:"id"`
	GoogleID         string     `json:"google_id,omitempty"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Name             string     `json:"name"`
	Picture          string     `json:"picture"`
	IsGuest          bool       `json:"is_guest"`
	CategoriesSeeded bool       `json:"-"`
	ProfileSyncedAt  *time.Time `json:"profile_synced_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLoginAt      time.Time  `json:"last_login_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Profile holds the identity fields refreshed from the identity provider.
type Profile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsedAt   time.Time `json:"last_used_at"`
}

// HasToken reports whether the session carries an OAuth access token.
func (s *Session) HasToken() bool {
	return s != nil && s.AccessToken != ""
}

type LoginRequest struct {
	Code         string `json:"code"`
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}
