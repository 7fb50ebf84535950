package handlers

import (
	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StakingWithdrawalRequest struct {
	StakingID string  `json:"staking_id" validate:"required,uuid4"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

func RequestStakingWithdrawal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req StakingWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	stakingID, err := uuid.Parse(req.StakingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid staking ID format"})
	}

	withdrawal, err := services.RequestStakingWithdrawal(userID, stakingID, req.Amount)
	if err != nil {
		return serviceError(c, err, "Failed to request withdrawal")
	}

	return c.Status(fiber.StatusCreated).JSON(withdrawal)
}

func RequestReferralWithdrawal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	withdrawal, err := services.RequestReferralWithdrawal(userID)
	if err != nil {
		return serviceError(c, err, "Failed to request withdrawal")
	}

	return c.Status(fiber.StatusCreated).JSON(withdrawal)
}

func ListMyWithdrawals(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var withdrawals []models.Withdrawal
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&withdrawals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch withdrawals"})
	}

	return c.JSON(withdrawals)
}
