package routes

import (
	"github.com/usdstake/backend/handlers"
	"github.com/usdstake/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func DepositRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	deposits := api.Group("/deposits", middleware.Protected())
	deposits.Post("", handlers.SubmitDeposit)
	deposits.Get("", handlers.ListMyDeposits)
	deposits.Get("/proof-signature", handlers.GenerateProofUploadSignature)
}
