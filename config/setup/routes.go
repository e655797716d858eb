package setup

import (
	"fintrack/app"
	"fintrack/handlers"
	"fintrack/middleware"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {

	// Public routes
	fiberApp.Get("/", handlers.HomePage(application))
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	// Auth routes
	fiberApp.Post("/api/auth/guest", handlers.StartGuest(application))
	fiberApp.Post("/api/auth/login", handlers.Login(application))
	fiberApp.Get("/auth/google", handlers.GoogleLogin(application))
	fiberApp.Get("/auth/google/callback", handlers.GoogleCallback(application))
	fiberApp.Post("/api/auth/logout", handlers.Logout(application))
	fiberApp.Get("/api/auth/me", handlers.Me(application))

	// Protected API routes
	api := fiberApp.Group("/api", middleware.AuthRequired(application.SessionStore, application.Auth), limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("userID").(string); ok {
				return "user:" + userID
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded for your account",
			})
		},
	}))

	// Fixed paths go before the :id routes they would otherwise match
	api.Get("/categories", handlers.GetCategories(application))
	api.Post("/categories", handlers.CreateCategory(application))
	api.Put("/categories/order", handlers.ReorderCategories(application))
	api.Put("/categories/:id", handlers.UpdateCategory(application))
	api.Put("/categories/:id/active", handlers.SetCategoryActive(application))
	api.Delete("/categories/:id", handlers.DeleteCategory(application))

	api.Get("/transactions", handlers.GetTransactions(application))
	api.Post("/transactions", handlers.CreateTransaction(application))
	api.Get("/transactions/history", handlers.GetTransactionHistory(application))
	api.Get("/transactions/export", handlers.ExportTransactions(application))
	api.Get("/transactions/:id", handlers.GetTransaction(application))
	api.Put("/transactions/:id", handlers.UpdateTransaction(application))
	api.Delete("/transactions/:id", handlers.DeleteTransaction(application))

	api.Get("/reports/summary", handlers.GetSummary(application))
	api.Get("/reports/categories", handlers.GetCategoryReport(application))
	api.Get("/reports/balance", handlers.GetBalance(application))
	api.Get("/reports/monthly", handlers.GetMonthly(application))
	api.Get("/reports/dashboard", handlers.GetDashboard(application))

	api.Get("/preferences", handlers.GetPreferences(application))
	api.Put("/preferences", handlers.UpdatePreferences(application))
	api.Delete("/preferences", handlers.ResetPreferences(application))

	api.Get("/stream/:topic", handlers.Stream(application))

	api.Put("/account", handlers.UpdateAccount(application))
	api.Delete("/account", handlers.DeleteAccount(application))
}
