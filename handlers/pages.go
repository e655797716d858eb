package handlers

import (
	"fintrack/app"
	"fintrack/views"

	"github.com/gofiber/fiber/v2"
)

func HomePage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefs := a.Preferences.Load()

		c.Set("Content-Type", "text/html; charset=utf-8")
		return views.Index(views.IndexProps{
			GoogleEnabled: a.Auth.GoogleEnabled(),
			GuestEnabled:  a.Auth.GuestEnabled(),
			Theme:         prefs.Theme,
			Language:      prefs.Language,
			FontScale:     prefs.FontScale,
		}).Render(c.UserContext(), c.Response().BodyWriter())
	}
}
