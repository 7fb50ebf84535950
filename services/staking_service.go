package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MinimumStakeAmount = 100.0

	// Principal tier table. The weekly return is frozen on the position at
	// creation time; changing these values never touches existing positions.
	TierOneThreshold    = 5000.0
	TierOneWeeklyReturn = 3.0
	BaseWeeklyReturn    = 2.5

	// A late batch pays out at most this many days in one pass.
	MaxAccrualDays = 7
)

func WeeklyReturnFor(principal float64) float64 {
	if principal >= TierOneThreshold {
		return TierOneWeeklyReturn
	}
	return BaseWeeklyReturn
}

// CreateStaking opens a position, debiting the principal from the account
// balance in the same transaction so funds cannot be committed twice by
// concurrent stakes. The first position a user ever opens also triggers the
// referrer bonus inside the same transaction.
func CreateStaking(userID uuid.UUID, principal float64, lockPeriodMonths int) (*models.StakingPosition, error) {
	if principal < MinimumStakeAmount {
		return nil, ErrBelowMinimum
	}
	if lockPeriodMonths < 1 {
		return nil, ErrInvalidLockPeriod
	}

	var position models.StakingPosition
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		user, err := LockUser(tx, userID)
		if err != nil {
			return err
		}
		if user.Balance < principal {
			return ErrInsufficientFunds
		}
		user.Balance = Round2(user.Balance - principal)
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		var priorPositions int64
		if err := tx.Model(&models.StakingPosition{}).Where("user_id = ?", userID).Count(&priorPositions).Error; err != nil {
			return err
		}

		now := time.Now()
		position = models.StakingPosition{
			UserID:              userID,
			Principal:           principal,
			WeeklyReturnPercent: WeeklyReturnFor(principal),
			LockPeriodMonths:    lockPeriodMonths,
			StartDate:           now,
			EndDate:             now.AddDate(0, lockPeriodMonths, 0),
			LastAccrualDate:     now,
			Status:              models.StakingStatusActive,
		}
		if err := tx.Create(&position).Error; err != nil {
			return err
		}

		if priorPositions == 0 {
			if err := CompleteReferralBonus(tx, user, principal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entityType := "staking_position"
	go notifications.Notify(
		userID,
		notifications.KindStaking,
		"Staking Position Opened",
		fmt.Sprintf("Your staking position of %.2f USDT at %.2f%% weekly return is now active.", principal, position.WeeklyReturnPercent),
		&position.ID,
		&entityType,
	)

	return &position, nil
}

// AccrueProfit applies up to MaxAccrualDays days of profit to one position and
// completes it once the lock period has elapsed. Profit is credited to both
// the position's ProfitsEarned and the account balance; on completion the
// principal is released back to the balance. The update is guarded on
// LastAccrualDate, so replaying the batch for an already-advanced position is
// a no-op rather than a double credit.
func AccrueProfit(positionID uuid.UUID, asOf time.Time) (profit float64, completed bool, err error) {
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		profit = 0
		completed = false

		var position models.StakingPosition
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&position, "id = ?", positionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if position.Status != models.StakingStatusActive {
			return nil
		}

		daysElapsed := int(asOf.Sub(position.LastAccrualDate).Hours() / 24)
		if daysElapsed > MaxAccrualDays {
			daysElapsed = MaxAccrualDays
		}
		reachedEnd := !asOf.Before(position.EndDate)

		if daysElapsed < 1 && !reachedEnd {
			return nil
		}

		if daysElapsed >= 1 {
			dailyRate := position.WeeklyReturnPercent / 7
			profit = Round2(position.Principal * dailyRate / 100 * float64(daysElapsed))
		}

		updates := map[string]interface{}{}
		if profit > 0 {
			updates["profits_earned"] = gorm.Expr("profits_earned + ?", profit)
			updates["last_accrual_date"] = asOf
		}
		if reachedEnd {
			updates["status"] = models.StakingStatusCompleted
		}

		res := tx.Model(&models.StakingPosition{}).
			Where("id = ? AND last_accrual_date = ?", position.ID, position.LastAccrualDate).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another run already advanced this position.
			profit = 0
			return nil
		}

		if profit > 0 {
			if err := Credit(tx, position.UserID, profit); err != nil {
				return err
			}
		}
		if reachedEnd {
			completed = true
			if err := Credit(tx, position.UserID, position.Principal); err != nil {
				return err
			}

			entityType := "staking_position"
			go notifications.Notify(
				position.UserID,
				notifications.KindStaking,
				"Staking Position Completed",
				fmt.Sprintf("Your staking position of %.2f USDT has completed its lock period. The principal has been returned to your balance and profits are now withdrawable.", position.Principal),
				&position.ID,
				&entityType,
			)
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return profit, completed, nil
}

type AccrualSummary struct {
	PositionsUpdated   int `json:"positions_updated"`
	PositionsCompleted int `json:"positions_completed"`
}

// RunAccrualBatch accrues every Active position in its own transaction. A
// failure on one position is logged and skipped so the rest of the batch still
// runs.
func RunAccrualBatch(asOf time.Time) (AccrualSummary, error) {
	var summary AccrualSummary

	var positionIDs []uuid.UUID
	err := database.DB.Model(&models.StakingPosition{}).
		Where("status = ?", models.StakingStatusActive).
		Pluck("id", &positionIDs).Error
	if err != nil {
		return summary, err
	}

	for _, positionID := range positionIDs {
		profit, completed, err := AccrueProfit(positionID, asOf)
		if err != nil {
			log.Printf("🔥 Accrual failed for position %s: %v", positionID, err)
			continue
		}
		if profit > 0 {
			summary.PositionsUpdated++
		}
		if completed {
			summary.PositionsCompleted++
		}
	}
	return summary, nil
}
