package handlers

import (
	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/services"
	"github.com/gofiber/fiber/v2"
)

type SubmitDepositRequest struct {
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	ExternalTxID string  `json:"external_tx_id" validate:"required,min=10"`
	Network      string  `json:"network" validate:"required,oneof=trc20 erc20 bep20"`
	ProofURL     *string `json:"proof_url,omitempty"`
}

func SubmitDeposit(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var req SubmitDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deposit, err := services.SubmitDeposit(userID, req.Amount, req.ExternalTxID, req.Network, req.ProofURL)
	if err != nil {
		return serviceError(c, err, "Failed to submit deposit")
	}

	return c.Status(fiber.StatusCreated).JSON(deposit)
}

func ListMyDeposits(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var deposits []models.Deposit
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&deposits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch deposits"})
	}

	return c.JSON(deposits)
}
