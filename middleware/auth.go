package middleware

import (
	"context"
	"fintrack/models"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
)

// SessionCookie is the name of the cookie carrying the session id
const SessionCookie = "session_id"

// SessionStore is the part of the session store the middleware needs
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Touch(ctx context.Context, sessionID string) error
}

// TokenRefresher defines the interface for refreshing OAuth tokens
type TokenRefresher interface {
	RefreshTokenIfNeeded(ctx context.Context, session *models.Session) (*oauth2.Token, error)
}

// AuthRequired creates an authentication middleware that requires a valid
// session, from the session cookie or an "Authorization: Bearer <session id>"
// header. If a tokenRefresher is provided, it will automatically refresh
// expiring OAuth tokens.
func AuthRequired(sessionStore SessionStore, tokenRefresher TokenRefresher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := SessionID(c)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization",
			})
		}

		sess, err := sessionStore.Get(c.UserContext(), sessionID)
		if err != nil {
			slog.Error("session lookup failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load session",
			})
		}
		if sess == nil {
			c.ClearCookie(SessionCookie)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		// Auto-refresh token if needed (only for sessions holding one)
		if tokenRefresher != nil && sess.HasToken() {
			if _, err := tokenRefresher.RefreshTokenIfNeeded(c.UserContext(), sess); err != nil {
				// The session itself stays valid
				slog.Warn("token refresh failed", "user_id", sess.UserID, "error", err)
			}
		}

		if err := sessionStore.Touch(c.UserContext(), sess.ID); err != nil {
			slog.Warn("failed to touch session", "error", err)
		}

		c.Locals("userID", sess.UserID)
		c.Locals("session", sess)
		return c.Next()
	}
}

// SessionID returns the session id sent with the request, if any
func SessionID(c *fiber.Ctx) string {
	if id := c.Cookies(SessionCookie); id != "" {
		return id
	}

	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return ""
	}
	return userID
}

func GetSession(c *fiber.Ctx) *models.Session {
	sess, ok := c.Locals("session").(*models.Session)
	if !ok {
		return nil
	}
	return sess
}
