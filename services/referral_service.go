package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/notifications"
	"gorm.io/gorm"
)

const ReferralBonusPercent = 5.0

// CompleteReferralBonus pays the one-time referral bonus for a referred user's
// first staking position. It must run inside the stake-creation transaction so
// the bonus and the stake commit or fail as one unit. A missing or already
// completed referral, or a referrer that no longer resolves, is a no-op: the
// stake itself must still succeed.
func CompleteReferralBonus(tx *gorm.DB, referred *models.User, principal float64) error {
	if referred.ReferredByCode == nil || *referred.ReferredByCode == "" {
		return nil
	}

	var referral models.Referral
	if err := tx.Where("referred_user_id = ? AND status = ?", referred.ID, models.ReferralStatusPending).First(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	referrer, err := LockUser(tx, referral.ReferrerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("Referrer %s no longer exists, skipping bonus for user %s", referral.ReferrerID, referred.ID)
			return nil
		}
		return err
	}

	bonus := Round2(principal * ReferralBonusPercent / 100)
	referrer.Balance = Round2(referrer.Balance + bonus)
	referrer.ReferralEarnings = Round2(referrer.ReferralEarnings + bonus)
	if err := tx.Save(referrer).Error; err != nil {
		return err
	}

	referral.Status = models.ReferralStatusCompleted
	referral.RewardAmount = bonus
	if err := tx.Save(&referral).Error; err != nil {
		return err
	}

	entityType := "referral"
	go notifications.Notify(
		referrer.ID,
		notifications.KindReferral,
		"You've Earned a Referral Bonus!",
		fmt.Sprintf("Someone you referred has opened their first staking position. A bonus of %.2f USDT has been added to your account.", bonus),
		&referral.ID,
		&entityType,
	)

	return nil
}
