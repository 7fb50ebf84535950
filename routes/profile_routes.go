package routes

import (
	"github.com/usdstake/backend/handlers"
	"github.com/usdstake/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Put("", handlers.UpdateProfile)
	profile.Get("/referrals", handlers.GetMyReferrals)
}
