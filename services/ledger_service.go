package services

import (
	"errors"
	"math"

	"github.com/usdstake/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The ledger primitives below are the only code allowed to mutate User.Balance
// or User.ReferralEarnings. Every caller must already be inside a
// DB.Transaction; each primitive takes a FOR UPDATE lock on the account row so
// concurrent money movements against the same account serialize instead of
// losing updates.

func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func LockUser(tx *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func Credit(tx *gorm.DB, userID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	user, err := LockUser(tx, userID)
	if err != nil {
		return err
	}
	user.Balance = Round2(user.Balance + amount)
	return tx.Save(user).Error
}

func Debit(tx *gorm.DB, userID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	user, err := LockUser(tx, userID)
	if err != nil {
		return err
	}
	if user.Balance < amount {
		return ErrInsufficientFunds
	}
	user.Balance = Round2(user.Balance - amount)
	return tx.Save(user).Error
}

func CreditReferralEarnings(tx *gorm.DB, userID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	user, err := LockUser(tx, userID)
	if err != nil {
		return err
	}
	user.ReferralEarnings = Round2(user.ReferralEarnings + amount)
	return tx.Save(user).Error
}

func DebitReferralEarnings(tx *gorm.DB, userID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	user, err := LockUser(tx, userID)
	if err != nil {
		return err
	}
	if user.ReferralEarnings < amount {
		return ErrInsufficientFunds
	}
	user.ReferralEarnings = Round2(user.ReferralEarnings - amount)
	return tx.Save(user).Error
}
