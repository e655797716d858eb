package handlers

import (
	"fintrack/app"
	"fintrack/config"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/services"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const stateCookie = "oauth_state"

func secureCookies() bool {
	return config.AppConfig != nil && config.AppConfig.IsProduction()
}

func setSessionCookie(c *fiber.Ctx, sess *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   secureCookies(),
		SameSite: "Lax",
		Path:     "/",
	})
}

func loginPayload(resp *services.LoginResponse) fiber.Map {
	return fiber.Map{
		"success":     true,
		"user":        resp.User,
		"is_new_user": resp.IsNewUser,
		"upgraded":    resp.Upgraded,
	}
}

// StartGuest creates a guest account and signs it in
func StartGuest(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := a.Auth.StartGuest(c.UserContext())
		if err != nil {
			return serviceError(c, "Failed to start guest session", err)
		}

		setSessionCookie(c, resp.Session)
		slog.Info("guest session started", "user_id", resp.User.ID)

		return created(c, loginPayload(resp))
	}
}

// Login handles user authentication via Google. It accepts an ID token, an
// authorization code or a client-obtained access token.
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		ctx := c.UserContext()
		current := middleware.SessionID(c)

		var resp *services.LoginResponse
		var err error

		switch {
		case req.IDToken != "":
			resp, err = a.Auth.LoginWithIDToken(ctx, req.IDToken, current)
		case req.Code != "":
			resp, err = a.Auth.LoginWithCode(ctx, req.Code, current)
		case req.AccessToken != "":
			resp, err = a.Auth.LoginWithToken(ctx, req.AccessToken, req.RefreshToken, req.ExpiresIn, current)
		default:
			return badRequest(c, "One of id_token, code or access_token is required")
		}

		if err != nil {
			slog.Warn("login failed", "error", err)
			return serviceError(c, "Login failed", err)
		}

		setSessionCookie(c, resp.Session)
		slog.Info("login successful",
			"user_id", resp.User.ID,
			"new_user", resp.IsNewUser,
			"upgraded", resp.Upgraded,
		)

		return success(c, loginPayload(resp))
	}
}

// Logout handles user logout
func Logout(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionID := middleware.SessionID(c); sessionID != "" {
			if err := a.Auth.Logout(c.UserContext(), sessionID); err != nil {
				slog.Warn("failed to delete session", "error", err)
			}
		}

		c.ClearCookie(middleware.SessionCookie)

		return success(c, fiber.Map{"success": true})
	}
}

// Me returns the current user's session information
func Me(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := middleware.SessionID(c)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"authenticated":  false,
				"google_enabled": a.Auth.GoogleEnabled(),
			})
		}

		info, err := a.Auth.GetSessionInfo(c.UserContext(), sessionID)
		if err != nil {
			c.ClearCookie(middleware.SessionCookie)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"authenticated":  false,
				"google_enabled": a.Auth.GoogleEnabled(),
			})
		}

		return success(c, fiber.Map{
			"authenticated":  true,
			"google_enabled": a.Auth.GoogleEnabled(),
			"user":           info.User,
		})
	}
}

// GoogleLogin redirects to the Google OAuth consent screen
func GoogleLogin(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := uuid.New().String()

		authURL, err := a.Auth.AuthCodeURL(state)
		if err != nil {
			return c.Redirect("/?error=google_disabled", fiber.StatusTemporaryRedirect)
		}

		// Store state in a short-lived cookie for the callback check
		c.Cookie(&fiber.Cookie{
			Name:     stateCookie,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
			Secure:   secureCookies(),
			SameSite: "Lax",
			Path:     "/",
		})

		return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
	}
}

// GoogleCallback handles the OAuth callback from Google
func GoogleCallback(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := c.Cookies(stateCookie)
		c.ClearCookie(stateCookie)

		if expected == "" || c.Query("state") != expected {
			slog.Warn("oauth state mismatch")
			return c.Redirect("/?error=invalid_state", fiber.StatusTemporaryRedirect)
		}

		if errParam := c.Query("error"); errParam != "" {
			slog.Warn("oauth error from google", "error", errParam)
			return c.Redirect("/?error="+url.QueryEscape(errParam), fiber.StatusTemporaryRedirect)
		}

		code := c.Query("code")
		if code == "" {
			return c.Redirect("/?error=missing_code", fiber.StatusTemporaryRedirect)
		}

		resp, err := a.Auth.LoginWithCode(c.UserContext(), code, middleware.SessionID(c))
		if err != nil {
			slog.Warn("oauth login failed", "error", err)
			return c.Redirect("/?error=login_failed", fiber.StatusTemporaryRedirect)
		}

		setSessionCookie(c, resp.Session)
		slog.Info("login successful", "user_id", resp.User.ID, "upgraded", resp.Upgraded)

		return c.Redirect("/", fiber.StatusTemporaryRedirect)
	}
}
