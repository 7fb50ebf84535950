package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/usdstake/backend/configs"
	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/notifications"
	"github.com/usdstake/backend/verification"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MinimumDepositAmount = 50.0

// SubmitDeposit records a deposit claim in Pending state. The external
// transaction id is the dedup key: a replayed submission is rejected no matter
// which account or amount it carries. TRC20 deposits are handed to the
// verification oracle for best-effort auto-confirmation.
func SubmitDeposit(userID uuid.UUID, amount float64, externalTxID, network string, proofURL *string) (*models.Deposit, error) {
	if amount < MinimumDepositAmount {
		return nil, ErrBelowMinimum
	}

	var count int64
	if err := database.DB.Model(&models.Deposit{}).Where("external_tx_id = ?", externalTxID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateTxID
	}

	deposit := models.Deposit{
		UserID:       userID,
		Amount:       amount,
		ExternalTxID: externalTxID,
		Network:      network,
		ProofURL:     proofURL,
		Status:       models.DepositStatusPending,
	}
	if err := database.DB.Create(&deposit).Error; err != nil {
		// The unique index catches submissions racing past the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTxID
		}
		return nil, err
	}

	entityType := "deposit"
	go notifications.Notify(
		userID,
		notifications.KindDeposit,
		"Deposit Submitted",
		fmt.Sprintf("Your deposit of %.2f USDT is pending confirmation.", amount),
		&deposit.ID,
		&entityType,
	)
	go notifications.NotifyAdmins(
		notifications.KindDeposit,
		"New Deposit Pending",
		fmt.Sprintf("A deposit of %.2f USDT (tx %s) is awaiting review.", amount, externalTxID),
		&deposit.ID,
		&entityType,
	)

	if deposit.Network == models.NetworkTRC20 && verification.Enabled() {
		go autoConfirmDeposit(deposit)
	}

	return &deposit, nil
}

func autoConfirmDeposit(deposit models.Deposit) {
	platformAddress := config.Config("PLATFORM_TRON_ADDRESS")
	if !verification.VerifyDeposit(deposit.ExternalTxID, deposit.Amount, platformAddress) {
		log.Printf("Deposit %s not auto-verified, left pending for manual review", deposit.ID)
		return
	}
	if _, err := ConfirmDeposit(deposit.ID); err != nil {
		log.Printf("🔥 Auto-confirmation failed for deposit %s: %v", deposit.ID, err)
	}
}

// ConfirmDeposit flips a Pending deposit to Confirmed and credits the account,
// both inside one transaction: a failed credit rolls the status flip back.
func ConfirmDeposit(depositID uuid.UUID) (*models.Deposit, error) {
	var deposit models.Deposit
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deposit, "id = ?", depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if deposit.Status != models.DepositStatusPending {
			return ErrInvalidTransition
		}

		now := time.Now()
		deposit.Status = models.DepositStatusConfirmed
		deposit.ProcessedAt = &now
		if err := tx.Save(&deposit).Error; err != nil {
			return err
		}

		return Credit(tx, deposit.UserID, deposit.Amount)
	})
	if err != nil {
		return nil, err
	}

	entityType := "deposit"
	go notifications.Notify(
		deposit.UserID,
		notifications.KindDeposit,
		"Deposit Confirmed",
		fmt.Sprintf("Your deposit of %.2f USDT has been credited to your balance.", deposit.Amount),
		&deposit.ID,
		&entityType,
	)

	return &deposit, nil
}

func RejectDeposit(depositID uuid.UUID, reason string) (*models.Deposit, error) {
	var deposit models.Deposit
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deposit, "id = ?", depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if deposit.Status != models.DepositStatusPending {
			return ErrInvalidTransition
		}

		now := time.Now()
		deposit.Status = models.DepositStatusRejected
		deposit.AdminNotes = &reason
		deposit.ProcessedAt = &now
		return tx.Save(&deposit).Error
	})
	if err != nil {
		return nil, err
	}

	entityType := "deposit"
	go notifications.Notify(
		deposit.UserID,
		notifications.KindDeposit,
		"Deposit Rejected",
		fmt.Sprintf("Your deposit of %.2f USDT was rejected. Reason: %s", deposit.Amount, reason),
		&deposit.ID,
		&entityType,
	)

	return &deposit, nil
}
