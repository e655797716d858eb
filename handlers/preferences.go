package handlers

import (
	"errors"
	"fintrack/app"
	"fintrack/models"
	"fintrack/preferences"

	"github.com/gofiber/fiber/v2"
)

// GetPreferences returns the stored preferences with defaults applied
func GetPreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return success(c, fiber.Map{"preferences": a.Preferences.Load()})
	}
}

// UpdatePreferences applies a partial update
func UpdatePreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdatePreferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		prefs, err := a.Preferences.Update(req)
		if err != nil {
			if errors.Is(err, preferences.ErrInvalidValue) {
				return badRequest(c, err.Error())
			}
			return serverErrorWithDetails(c, "Failed to save preferences", err)
		}

		return success(c, fiber.Map{"preferences": prefs})
	}
}

// ResetPreferences restores every preference to its default
func ResetPreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Preferences.Reset(); err != nil {
			return serverErrorWithDetails(c, "Failed to reset preferences", err)
		}

		return success(c, fiber.Map{"preferences": a.Preferences.Load()})
	}
}
