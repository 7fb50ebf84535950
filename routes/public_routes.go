package routes

import (
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/services"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/platform-info", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"minimum_deposit": services.MinimumDepositAmount,
			"minimum_stake":   services.MinimumStakeAmount,
			"staking_tiers": []fiber.Map{
				{"minimum_principal": services.TierOneThreshold, "weekly_return_percent": services.TierOneWeeklyReturn},
				{"minimum_principal": services.MinimumStakeAmount, "weekly_return_percent": services.BaseWeeklyReturn},
			},
			"networks":               []string{models.NetworkTRC20, models.NetworkERC20, models.NetworkBEP20},
			"referral_bonus_percent": services.ReferralBonusPercent,
		})
	})
}
