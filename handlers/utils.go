package handlers

import (
	"errors"
	"fintrack/services"
	"fintrack/validator"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": message})
}

func conflict(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

func serverErrorWithDetails(c *fiber.Ctx, message string, err error) error {
	requestID := ""
	if id, ok := c.Locals("requestID").(string); ok {
		requestID = id
	}

	slog.Error("server error",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"message", message,
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
}

func validationError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": validationErrs,
		})
	}
	return badRequest(c, err.Error())
}

// serviceError maps domain errors to HTTP responses. Anything unknown is a
// 500 logged with message.
func serviceError(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrCategoryExists),
		errors.Is(err, services.ErrCategoryInUse):
		return conflict(c, err.Error())
	case errors.Is(err, services.ErrCategoryKindMismatch),
		errors.Is(err, services.ErrCategoryOrderMismatch),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidDateRange):
		return badRequest(c, err.Error())
	case errors.Is(err, services.ErrGuestDisabled),
		errors.Is(err, services.ErrIdentityUnavailable):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAuthCode),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrInvalidUserInfo),
		errors.Is(err, services.ErrSessionNotFound):
		return unauthorized(c, "Authentication failed")
	default:
		return serverErrorWithDetails(c, message, err)
	}
}
