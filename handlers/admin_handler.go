package handlers

import (
	"time"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/services"
	"github.com/gofiber/fiber/v2"
)

func AdminListDeposits(c *fiber.Ctx) error {
	status := c.Query("status", models.DepositStatusPending)

	var deposits []models.Deposit
	if err := database.DB.Preload("User").Where("status = ?", status).Order("created_at ASC").Find(&deposits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch deposits"})
	}

	return c.JSON(deposits)
}

func AdminApproveDeposit(c *fiber.Ctx) error {
	depositID, err := parseIDParam(c, "depositId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deposit ID format"})
	}

	deposit, err := services.ConfirmDeposit(depositID)
	if err != nil {
		return serviceError(c, err, "Failed to confirm deposit")
	}

	return c.JSON(deposit)
}

func AdminRejectDeposit(c *fiber.Ctx) error {
	depositID, err := parseIDParam(c, "depositId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deposit ID format"})
	}

	type RejectRequest struct {
		Reason string `json:"reason" validate:"required"`
	}
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deposit, err := services.RejectDeposit(depositID, req.Reason)
	if err != nil {
		return serviceError(c, err, "Failed to reject deposit")
	}

	return c.JSON(deposit)
}

func AdminListWithdrawals(c *fiber.Ctx) error {
	status := c.Query("status", models.WithdrawalStatusPending)

	var withdrawals []models.Withdrawal
	if err := database.DB.Preload("User").Where("status = ?", status).Order("created_at ASC").Find(&withdrawals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch withdrawals"})
	}

	return c.JSON(withdrawals)
}

func AdminApproveWithdrawal(c *fiber.Ctx) error {
	withdrawalID, err := parseIDParam(c, "withdrawalId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal ID format"})
	}

	approverID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	type ApproveRequest struct {
		PayoutRef string `json:"payout_ref" validate:"required"`
	}
	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	withdrawal, err := services.ApproveWithdrawal(withdrawalID, approverID, req.PayoutRef)
	if err != nil {
		return serviceError(c, err, "Failed to approve withdrawal")
	}

	return c.JSON(withdrawal)
}

func AdminRejectWithdrawal(c *fiber.Ctx) error {
	withdrawalID, err := parseIDParam(c, "withdrawalId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal ID format"})
	}

	approverID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}

	type RejectRequest struct {
		Reason string `json:"reason" validate:"required"`
	}
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	withdrawal, err := services.RejectWithdrawal(withdrawalID, approverID, req.Reason)
	if err != nil {
		return serviceError(c, err, "Failed to reject withdrawal")
	}

	return c.JSON(withdrawal)
}

// AdminRunAccrual triggers the accrual batch on demand, the same routine the
// daily cron runs.
func AdminRunAccrual(c *fiber.Ctx) error {
	summary, err := services.RunAccrualBatch(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to run accrual batch"})
	}

	return c.JSON(summary)
}

func AdminGetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(users)
}

func AdminToggleUserStatus(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"id": user.ID, "is_active": user.IsActive})
}

func AdminGetDashboardAnalytics(c *fiber.Ctx) error {
	var totalUsers int64
	var activePositions int64
	var stakedPrincipal float64
	var confirmedDeposits float64
	var approvedWithdrawals float64
	var pendingDeposits int64
	var pendingWithdrawals int64

	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.StakingPosition{}).Where("status = ?", models.StakingStatusActive).Count(&activePositions)
	database.DB.Model(&models.StakingPosition{}).Where("status = ?", models.StakingStatusActive).
		Select("COALESCE(SUM(principal), 0)").Scan(&stakedPrincipal)
	database.DB.Model(&models.Deposit{}).Where("status = ?", models.DepositStatusConfirmed).
		Select("COALESCE(SUM(amount), 0)").Scan(&confirmedDeposits)
	database.DB.Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalStatusApproved).
		Select("COALESCE(SUM(amount), 0)").Scan(&approvedWithdrawals)
	database.DB.Model(&models.Deposit{}).Where("status = ?", models.DepositStatusPending).Count(&pendingDeposits)
	database.DB.Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalStatusPending).Count(&pendingWithdrawals)

	return c.JSON(fiber.Map{
		"total_users":          totalUsers,
		"active_positions":     activePositions,
		"staked_principal":     stakedPrincipal,
		"confirmed_deposits":   confirmedDeposits,
		"approved_withdrawals": approvedWithdrawals,
		"pending_deposits":     pendingDeposits,
		"pending_withdrawals":  pendingWithdrawals,
	})
}
