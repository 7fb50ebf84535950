package handlers

import (
	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName      *string `json:"full_name"`
	WalletAddress *string `json:"wallet_address"`
}

func GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.WalletAddress != nil {
		user.WalletAddress = req.WalletAddress
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(user)
}

func GetMyReferrals(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	var referrals []models.Referral
	if err := database.DB.Preload("ReferredUser").Where("referrer_id = ?", userID).Order("created_at DESC").Find(&referrals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch referrals"})
	}

	type ReferralSummary struct {
		ID           string  `json:"id"`
		ReferredName string  `json:"referred_name"`
		Status       string  `json:"status"`
		RewardAmount float64 `json:"reward_amount"`
	}

	summaries := make([]ReferralSummary, 0, len(referrals))
	for _, referral := range referrals {
		summaries = append(summaries, ReferralSummary{
			ID:           referral.ID.String(),
			ReferredName: referral.ReferredUser.FullName,
			Status:       referral.Status,
			RewardAmount: referral.RewardAmount,
		})
	}

	return c.JSON(summaries)
}
