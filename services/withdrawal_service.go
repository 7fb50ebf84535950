package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestStakingWithdrawal reserves profit at request time: the position's
// ProfitsEarned and the account balance are both debited in the same
// transaction that creates the Pending withdrawal, so the same profit cannot
// be requested twice concurrently. Approval later performs no further balance
// mutation.
func RequestStakingWithdrawal(userID, stakingID uuid.UUID, amount float64) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var withdrawal models.Withdrawal
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var position models.StakingPosition
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&position, "id = ?", stakingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if position.UserID != userID {
			return ErrNotOwned
		}
		if position.Status != models.StakingStatusCompleted {
			return ErrNotCompleted
		}
		if amount > position.ProfitsEarned {
			return ErrInsufficientProfit
		}

		position.ProfitsEarned = Round2(position.ProfitsEarned - amount)
		if err := tx.Save(&position).Error; err != nil {
			return err
		}
		if err := Debit(tx, userID, amount); err != nil {
			return err
		}

		withdrawal = models.Withdrawal{
			UserID:          userID,
			Amount:          amount,
			Kind:            models.WithdrawalKindStakingProfit,
			SourceStakingID: &position.ID,
			Status:          models.WithdrawalStatusPending,
		}
		return tx.Create(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	notifyWithdrawalRequested(&withdrawal)
	return &withdrawal, nil
}

// RequestReferralWithdrawal always withdraws the full current referral
// earnings; partial amounts are not supported.
func RequestReferralWithdrawal(userID uuid.UUID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		user, err := LockUser(tx, userID)
		if err != nil {
			return err
		}
		amount := user.ReferralEarnings
		if amount <= 0 {
			return ErrNoEarnings
		}
		if user.Balance < amount {
			return ErrInsufficientFunds
		}

		user.ReferralEarnings = 0
		user.Balance = Round2(user.Balance - amount)
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		withdrawal = models.Withdrawal{
			UserID: userID,
			Amount: amount,
			Kind:   models.WithdrawalKindReferralEarnings,
			Status: models.WithdrawalStatusPending,
		}
		return tx.Create(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	notifyWithdrawalRequested(&withdrawal)
	return &withdrawal, nil
}

// ApproveWithdrawal records that the off-chain payout was executed. The funds
// were already debited at request time, so approval only transitions the
// status and stores the payout reference.
func ApproveWithdrawal(withdrawalID, approverID uuid.UUID, payoutRef string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&withdrawal, "id = ?", withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if withdrawal.Status != models.WithdrawalStatusPending {
			return ErrInvalidTransition
		}

		now := time.Now()
		withdrawal.Status = models.WithdrawalStatusApproved
		withdrawal.PayoutRef = &payoutRef
		withdrawal.ApprovedBy = &approverID
		withdrawal.ProcessedAt = &now
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	entityType := "withdrawal"
	go notifications.Notify(
		withdrawal.UserID,
		notifications.KindWithdrawal,
		"Withdrawal Approved",
		fmt.Sprintf("Your withdrawal of %.2f USDT has been paid out. Reference: %s", withdrawal.Amount, payoutRef),
		&withdrawal.ID,
		&entityType,
	)

	return &withdrawal, nil
}

// RejectWithdrawal reverses the request-time debit exactly: the balance and
// the original source field get back the same stored amount. The Pending
// precondition means a withdrawal can only ever be reversed once.
func RejectWithdrawal(withdrawalID, approverID uuid.UUID, reason string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&withdrawal, "id = ?", withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if withdrawal.Status != models.WithdrawalStatusPending {
			return ErrInvalidTransition
		}

		now := time.Now()
		withdrawal.Status = models.WithdrawalStatusRejected
		withdrawal.AdminNotes = &reason
		withdrawal.ApprovedBy = &approverID
		withdrawal.ProcessedAt = &now
		if err := tx.Save(&withdrawal).Error; err != nil {
			return err
		}

		switch withdrawal.Kind {
		case models.WithdrawalKindStakingProfit:
			var position models.StakingPosition
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&position, "id = ?", withdrawal.SourceStakingID).Error; err != nil {
				return err
			}
			position.ProfitsEarned = Round2(position.ProfitsEarned + withdrawal.Amount)
			if err := tx.Save(&position).Error; err != nil {
				return err
			}
			return Credit(tx, withdrawal.UserID, withdrawal.Amount)
		case models.WithdrawalKindReferralEarnings:
			user, err := LockUser(tx, withdrawal.UserID)
			if err != nil {
				return err
			}
			user.Balance = Round2(user.Balance + withdrawal.Amount)
			user.ReferralEarnings = Round2(user.ReferralEarnings + withdrawal.Amount)
			return tx.Save(user).Error
		default:
			return fmt.Errorf("unknown withdrawal kind: %s", withdrawal.Kind)
		}
	})
	if err != nil {
		return nil, err
	}

	entityType := "withdrawal"
	go notifications.Notify(
		withdrawal.UserID,
		notifications.KindWithdrawal,
		"Withdrawal Rejected",
		fmt.Sprintf("Your withdrawal of %.2f USDT was rejected and the funds were returned to your account. Reason: %s", withdrawal.Amount, reason),
		&withdrawal.ID,
		&entityType,
	)

	return &withdrawal, nil
}

func notifyWithdrawalRequested(withdrawal *models.Withdrawal) {
	entityType := "withdrawal"
	go notifications.Notify(
		withdrawal.UserID,
		notifications.KindWithdrawal,
		"Withdrawal Requested",
		fmt.Sprintf("Your withdrawal request of %.2f USDT is pending review.", withdrawal.Amount),
		&withdrawal.ID,
		&entityType,
	)
	go notifications.NotifyAdmins(
		notifications.KindWithdrawal,
		"New Withdrawal Pending",
		fmt.Sprintf("A withdrawal of %.2f USDT is awaiting review.", withdrawal.Amount),
		&withdrawal.ID,
		&entityType,
	)
}
