package handlers

import (
	"fintrack/app"
	"fintrack/middleware"
	"fintrack/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

// reportRange resolves ?range=this_month|last_month|this_year|all or
// explicit ?from=&to= bounds
func reportRange(a *app.App, c *fiber.Ctx) (models.DateRange, error) {
	return a.Reports.Resolve(c.Query("range"), c.Query("from"), c.Query("to"))
}

// GetSummary returns income, expense and net for a range
func GetSummary(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := reportRange(a, c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		summary, err := a.Reports.Summary(c.UserContext(), middleware.GetUserID(c), r)
		if err != nil {
			return serviceError(c, "Failed to build summary", err)
		}

		return success(c, fiber.Map{"summary": summary})
	}
}

// GetCategoryReport returns per-category totals of one kind
func GetCategoryReport(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := reportRange(a, c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		kind, ok := parseKind(c)
		if !ok {
			return badRequest(c, errInvalidKind.Error())
		}
		if kind == "" {
			kind = models.KindExpense
		}

		totals, err := a.Reports.ByCategory(c.UserContext(), middleware.GetUserID(c), kind, r, language(a, c))
		if err != nil {
			return serviceError(c, "Failed to build category report", err)
		}

		return success(c, fiber.Map{"range": r, "kind": kind, "categories": totals})
	}
}

// GetBalance returns the daily running balance for a range
func GetBalance(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := reportRange(a, c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		balance, err := a.Reports.Balance(c.UserContext(), middleware.GetUserID(c), r)
		if err != nil {
			return serviceError(c, "Failed to build balance", err)
		}

		return success(c, fiber.Map{"balance": balance})
	}
}

// GetMonthly returns twelve monthly buckets for ?year=
func GetMonthly(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year", time.Now().Year())
		if year < 1900 || year > 9999 {
			return badRequest(c, "year is out of range")
		}

		months, err := a.Reports.Monthly(c.UserContext(), middleware.GetUserID(c), year)
		if err != nil {
			return serviceError(c, "Failed to build monthly report", err)
		}

		return success(c, fiber.Map{"year": year, "months": months})
	}
}

// GetDashboard returns the home screen aggregates in one response
func GetDashboard(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := reportRange(a, c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		dashboard, err := a.Reports.Dashboard(c.UserContext(), middleware.GetUserID(c), r, language(a, c))
		if err != nil {
			return serviceError(c, "Failed to build dashboard", err)
		}

		return success(c, fiber.Map{"dashboard": dashboard})
	}
}
