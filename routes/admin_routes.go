package routes

import (
	"github.com/usdstake/backend/handlers"
	"github.com/usdstake/backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	deposits := admin.Group("/deposits")
	deposits.Get("", handlers.AdminListDeposits)
	deposits.Put("/:depositId/approve", handlers.AdminApproveDeposit)
	deposits.Put("/:depositId/reject", handlers.AdminRejectDeposit)

	withdrawals := admin.Group("/withdrawals")
	withdrawals.Get("", handlers.AdminListWithdrawals)
	withdrawals.Put("/:withdrawalId/approve", handlers.AdminApproveWithdrawal)
	withdrawals.Put("/:withdrawalId/reject", handlers.AdminRejectWithdrawal)

	admin.Post("/staking/accrue", handlers.AdminRunAccrual)

	users := admin.Group("/users")
	users.Get("", handlers.AdminGetAllUsers)
	users.Put("/:userId/status", handlers.AdminToggleUserStatus)

	admin.Get("/dashboard-analytics", handlers.AdminGetDashboardAnalytics)
}
