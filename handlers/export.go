package handlers

import (
	"bytes"
	"fintrack/app"
	"fintrack/middleware"
	"fintrack/services"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportTransactions downloads the filtered transactions as an XLSX workbook
func ExportTransactions(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := transactionFilter(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		// Export everything that matches
		filter.Limit, filter.Offset = 0, 0

		prefs := a.Preferences.Load()
		opts := services.ExportOptions{
			Language: language(a, c),
			Currency: prefs.Currency,
		}

		var buf bytes.Buffer
		if err := a.Export.WriteXLSX(c.UserContext(), &buf, middleware.GetUserID(c), filter, opts); err != nil {
			return serviceError(c, "Failed to export transactions", err)
		}

		filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
