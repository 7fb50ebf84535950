package handlers

import (
	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/services"
	"github.com/gofiber/fiber/v2"
)

type CreateStakingRequest struct {
	Principal        float64 `json:"principal" validate:"required,gt=0"`
	LockPeriodMonths int     `json:"lock_period_months" validate:"required,oneof=3 6 12"`
}

func CreateStaking(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req CreateStakingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	position, err := services.CreateStaking(userID, req.Principal, req.LockPeriodMonths)
	if err != nil {
		return serviceError(c, err, "Failed to create staking position")
	}

	return c.Status(fiber.StatusCreated).JSON(position)
}

func ListMyStakingPositions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var positions []models.StakingPosition
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&positions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch staking positions"})
	}

	return c.JSON(positions)
}
