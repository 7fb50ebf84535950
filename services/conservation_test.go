package services

import (
	"testing"
	"time"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// systemTotals sums the money visible anywhere in the system: spendable
// balances, principal locked in active positions and amounts reserved by
// pending withdrawals.
func systemTotals(t *testing.T) float64 {
	t.Helper()

	var balances, lockedPrincipal, pendingWithdrawals float64
	require.NoError(t, database.DB.Model(&models.User{}).Select("COALESCE(SUM(balance), 0)").Scan(&balances).Error)
	require.NoError(t, database.DB.Model(&models.StakingPosition{}).
		Where("status = ?", models.StakingStatusActive).
		Select("COALESCE(SUM(principal), 0)").Scan(&lockedPrincipal).Error)
	require.NoError(t, database.DB.Model(&models.Withdrawal{}).
		Where("status = ?", models.WithdrawalStatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pendingWithdrawals).Error)

	return balances + lockedPrincipal + pendingWithdrawals
}

// TestConservationScenario walks the full lifecycle: money entering through
// confirmed deposits plus platform-minted profit and referral bonuses, minus
// approved payouts, must equal the money sitting in the system at every
// quiescent point.
func TestConservationScenario(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, 0)
	admin := createTestUser(t, 0)

	user := createTestUser(t, 0)
	user.ReferredByCode = referrer.ReferralCode
	require.NoError(t, database.DB.Save(user).Error)
	require.NoError(t, database.DB.Create(&models.Referral{
		ReferrerID:     referrer.ID,
		ReferredUserID: user.ID,
		Status:         models.ReferralStatusPending,
	}).Error)

	var deposited, minted, paidOut float64

	// Deposit 1000 and confirm it.
	deposit, err := SubmitDeposit(user.ID, 1000, gofakeit.LetterN(64), models.NetworkERC20, nil)
	require.NoError(t, err)
	_, err = ConfirmDeposit(deposit.ID)
	require.NoError(t, err)
	deposited += 1000
	assert.Equal(t, 1000.0, reloadUser(t, user).Balance)
	assert.InDelta(t, deposited+minted-paidOut, systemTotals(t), 0.001)

	// Stake the full balance. Tier stays at the base rate, the referrer earns 5%.
	position, err := CreateStaking(user.ID, 1000, 3)
	require.NoError(t, err)
	assert.Equal(t, 2.5, position.WeeklyReturnPercent)
	assert.Equal(t, 0.0, reloadUser(t, user).Balance)
	minted += 50 // referral bonus
	assert.InDelta(t, deposited+minted-paidOut, systemTotals(t), 0.001)

	// One day of accrual pays out 1000 * (2.5/7)/100 ≈ 3.57.
	require.NoError(t, database.DB.Model(&models.StakingPosition{}).
		Where("id = ?", position.ID).
		Update("last_accrual_date", time.Now().Add(-25*time.Hour)).Error)
	profit, completed, err := AccrueProfit(position.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, completed)
	assert.InDelta(t, 3.57, profit, 0.001)
	minted += profit
	assert.InDelta(t, deposited+minted-paidOut, systemTotals(t), 0.001)

	// Profit is not withdrawable while the position is Active.
	_, err = RequestStakingWithdrawal(user.ID, position.ID, profit)
	assert.ErrorIs(t, err, ErrNotCompleted)

	// Lock period elapses; the completing pass releases the principal.
	require.NoError(t, database.DB.Model(&models.StakingPosition{}).
		Where("id = ?", position.ID).
		Update("end_date", time.Now().Add(-time.Minute)).Error)
	_, completed, err = AccrueProfit(position.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, completed)
	assert.InDelta(t, deposited+minted-paidOut, systemTotals(t), 0.001)

	// Withdraw the accrued profit and approve the payout.
	withdrawal, err := RequestStakingWithdrawal(user.ID, position.ID, profit)
	require.NoError(t, err)
	assert.InDelta(t, deposited+minted-paidOut, systemTotals(t), 0.001)

	_, err = ApproveWithdrawal(withdrawal.ID, admin.ID, "tron:payout1")
	require.NoError(t, err)
	paidOut += profit
	assert.InDelta(t, deposited+minted-paidOut, systemTotals(t), 0.001)

	// The referrer cashes out the bonus; rejection restores it exactly.
	referralWithdrawal, err := RequestReferralWithdrawal(referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, referralWithdrawal.Amount)
	_, err = RejectWithdrawal(referralWithdrawal.ID, admin.ID, "wallet mismatch")
	require.NoError(t, err)
	assert.Equal(t, 50.0, reloadUser(t, referrer).Balance)
	assert.Equal(t, 50.0, reloadUser(t, referrer).ReferralEarnings)
	assert.InDelta(t, deposited+minted-paidOut, systemTotals(t), 0.001)
}
