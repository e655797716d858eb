package handlers

import (
	"errors"
	"fintrack/app"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/services"

	"github.com/gofiber/fiber/v2"
)

// language returns the preferred display language, overridable per request
// with ?lang=
func language(a *app.App, c *fiber.Ctx) string {
	if lang := c.Query("lang"); models.IsLanguage(lang) {
		return lang
	}
	return a.Preferences.Load().Language
}

var errInvalidKind = errors.New("kind must be either 'expense' or 'income'")

func parseKind(c *fiber.Ctx) (models.Kind, bool) {
	kind := models.Kind(c.Query("kind"))
	if kind == "" {
		return "", true
	}
	return kind, kind.Valid()
}

// GetCategories lists the user's categories in display order
func GetCategories(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ok := parseKind(c)
		if !ok {
			return badRequest(c, errInvalidKind.Error())
		}

		userID := middleware.GetUserID(c)
		cats, err := a.Categories.List(c.UserContext(), userID, kind, c.QueryBool("all", false))
		if err != nil {
			return serviceError(c, "Failed to fetch categories", err)
		}

		return success(c, fiber.Map{"categories": services.Localize(cats, language(a, c))})
	}
}

// CreateCategory adds a user category at the end of its kind
func CreateCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		cat, err := a.Categories.Create(c.UserContext(), middleware.GetUserID(c), req)
		if err != nil {
			return serviceError(c, "Failed to create category", err)
		}

		cat.Label = cat.DisplayName(language(a, c))
		return created(c, fiber.Map{"category": cat})
	}
}

// UpdateCategory renames a category or changes its icon
func UpdateCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		cat, err := a.Categories.Update(c.UserContext(), middleware.GetUserID(c), c.Params("id"), req)
		if err != nil {
			return serviceError(c, "Failed to update category", err)
		}

		cat.Label = cat.DisplayName(language(a, c))
		return success(c, fiber.Map{"category": cat})
	}
}

// SetCategoryActive shows or hides a category in pickers
func SetCategoryActive(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SetCategoryActiveRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Categories.SetActive(c.UserContext(), middleware.GetUserID(c), c.Params("id"), req.IsActive); err != nil {
			return serviceError(c, "Failed to update category", err)
		}

		return success(c, fiber.Map{"success": true, "is_active": req.IsActive})
	}
}

// ReorderCategories stores a new display order for one kind
func ReorderCategories(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ReorderCategoriesRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		if err := a.Categories.Reorder(c.UserContext(), middleware.GetUserID(c), req.Kind, req.IDs); err != nil {
			return serviceError(c, "Failed to reorder categories", err)
		}

		return success(c, fiber.Map{"success": true})
	}
}

// DeleteCategory removes a category that no transaction references
func DeleteCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Categories.Delete(c.UserContext(), middleware.GetUserID(c), c.Params("id")); err != nil {
			return serviceError(c, "Failed to delete category", err)
		}

		return success(c, fiber.Map{"success": true})
	}
}
