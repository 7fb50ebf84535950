package routes

import (
	"github.com/usdstake/backend/handlers"
	"github.com/usdstake/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func WithdrawalRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	withdrawals := api.Group("/withdrawals", middleware.Protected())
	withdrawals.Post("/staking", handlers.RequestStakingWithdrawal)
	withdrawals.Post("/referral", handlers.RequestReferralWithdrawal)
	withdrawals.Get("", handlers.ListMyWithdrawals)
}
