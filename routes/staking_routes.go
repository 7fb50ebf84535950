package routes

import (
	"github.com/usdstake/backend/handlers"
	"github.com/usdstake/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func StakingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	staking := api.Group("/staking", middleware.Protected())
	staking.Post("", handlers.CreateStaking)
	staking.Get("", handlers.ListMyStakingPositions)
}
