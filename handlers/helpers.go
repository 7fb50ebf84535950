package handlers

import (
	"errors"
	"log"

	"github.com/usdstake/backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var validate = validator.New()

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	return uuid.Parse(claims["user_id"].(string))
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// serviceError maps the service-layer sentinels onto the HTTP contract.
// NotOwned is answered with 404 so ownership probing looks identical to a
// missing record.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNotOwned):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrInvalidLockPeriod),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrInsufficientProfit),
		errors.Is(err, services.ErrNoEarnings),
		errors.Is(err, services.ErrNotCompleted),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrDuplicateTxID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("🔥 %s: %v", fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
