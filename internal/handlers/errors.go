package handlers

import (
	"errors"
	"fmt"

	"katalog/internal/models"
	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func badRequestBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validationFailed writes a 400 listing the fields that failed, keyed by field name.
func validationFailed(c *fiber.Ctx, message string, err error) error {
	var productErr *models.ValidationError
	if errors.As(err, &productErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"errors":  productErr.Fields,
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"errors":  errorMessages,
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// ruleViolation writes a 422 for a well-formed product that breaks catalog limits.
func ruleViolation(c *fiber.Ctx, err error) error {
	var ruleErr *services.RuleError
	if errors.As(err, &ruleErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": services.ErrCatalogRule.Error(),
			"errors":  ruleErr.Fields,
		})
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": services.ErrCatalogRule.Error(),
		"error":   err.Error(),
	})
}
