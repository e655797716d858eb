package services

import (
	"errors"
	"fintrack/models"
)

// Common service-level errors
var (
	// Auth errors
	ErrInvalidAuthCode     = errors.New("invalid authorization code")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidUserInfo     = errors.New("invalid user information")
	ErrSessionNotFound     = errors.New("session not found")
	ErrGuestDisabled       = errors.New("guest mode is disabled")
	ErrIdentityUnavailable = errors.New("google sign-in is not configured")
	ErrNoRefreshToken      = errors.New("no refresh token available")
	ErrTokenRefreshFailed  = errors.New("token refresh failed")
	ErrUserNotFound        = errors.New("user not found")

	// Category errors
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryExists        = errors.New("category already exists")
	ErrCategoryInUse         = errors.New("category is used by transactions")
	ErrCategoryKindMismatch  = errors.New("transaction kind does not match category kind")
	ErrCategoryOrderMismatch = errors.New("order must list every category of that kind exactly once")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = models.ErrInvalidAmount

	// Report errors
	ErrInvalidDateRange = errors.New("invalid date range")
)
