package handlers

import (
	"fintrack/app"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/services"

	"github.com/gofiber/fiber/v2"
)

// transactionFilter reads the list filters shared by listing, history and
// export from the query string
func transactionFilter(c *fiber.Ctx) (models.TransactionFilter, error) {
	r, err := services.CustomRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return models.TransactionFilter{}, err
	}

	kind, ok := parseKind(c)
	if !ok {
		return models.TransactionFilter{}, errInvalidKind
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return models.TransactionFilter{
		From:       r.From,
		To:         r.To,
		CategoryID: c.Query("category_id"),
		Kind:       kind,
		Search:     c.Query("q"),
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// GetTransactions lists transactions, newest first
func GetTransactions(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := transactionFilter(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		transactions, err := a.Transactions.List(c.UserContext(), middleware.GetUserID(c), filter)
		if err != nil {
			return serviceError(c, "Failed to fetch transactions", err)
		}

		return success(c, fiber.Map{
			"transactions": transactions,
			"limit":        filter.Limit,
			"offset":       filter.Offset,
		})
	}
}

// GetTransactionHistory lists transactions grouped by day
func GetTransactionHistory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := transactionFilter(c)
		if err != nil {
			return badRequest(c, err.Error())
		}

		days, err := a.Transactions.History(c.UserContext(), middleware.GetUserID(c), filter)
		if err != nil {
			return serviceError(c, "Failed to fetch history", err)
		}

		return success(c, fiber.Map{"days": days})
	}
}

// GetTransaction returns a single transaction
func GetTransaction(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := a.Transactions.Get(c.UserContext(), middleware.GetUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, "Failed to fetch transaction", err)
		}

		return success(c, fiber.Map{"transaction": t})
	}
}

// CreateTransaction records an income or expense
func CreateTransaction(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateTransactionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		t, err := a.Transactions.Create(c.UserContext(), middleware.GetUserID(c), req)
		if err != nil {
			return serviceError(c, "Failed to create transaction", err)
		}

		return created(c, fiber.Map{"transaction": t})
	}
}

// UpdateTransaction replaces every editable field of a transaction
func UpdateTransaction(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateTransactionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		t, err := a.Transactions.Update(c.UserContext(), middleware.GetUserID(c), c.Params("id"), req)
		if err != nil {
			return serviceError(c, "Failed to update transaction", err)
		}

		return success(c, fiber.Map{"transaction": t})
	}
}

// DeleteTransaction removes a transaction
func DeleteTransaction(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Transactions.Delete(c.UserContext(), middleware.GetUserID(c), c.Params("id")); err != nil {
			return serviceError(c, "Failed to delete transaction", err)
		}

		return success(c, fiber.Map{"success": true})
	}
}
