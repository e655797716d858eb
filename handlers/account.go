package handlers

import (
	"fintrack/app"
	"fintrack/middleware"
	"fintrack/models"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// UpdateAccount changes the user's display name and phone
func UpdateAccount(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		user, err := a.Auth.UpdateProfile(c.UserContext(), middleware.GetUserID(c), req)
		if err != nil {
			return serviceError(c, "Failed to update account", err)
		}

		return success(c, fiber.Map{"user": user})
	}
}

// DeleteAccount removes the user and everything they own
func DeleteAccount(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		if err := a.Auth.DeleteAccount(c.UserContext(), userID); err != nil {
			return serviceError(c, "Failed to delete account", err)
		}

		c.ClearCookie(middleware.SessionCookie)
		slog.Info("account deleted", "user_id", userID)

		return success(c, fiber.Map{"success": true})
	}
}
