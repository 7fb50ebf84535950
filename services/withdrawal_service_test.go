package services

import (
	"testing"
	"time"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedPosition(t *testing.T, user *models.User, principal, profits float64) *models.StakingPosition {
	t.Helper()

	now := time.Now()
	position := models.StakingPosition{
		UserID:              user.ID,
		Principal:           principal,
		WeeklyReturnPercent: WeeklyReturnFor(principal),
		LockPeriodMonths:    3,
		StartDate:           now.AddDate(0, -3, 0),
		EndDate:             now.Add(-time.Hour),
		LastAccrualDate:     now.Add(-time.Hour),
		ProfitsEarned:       profits,
		Status:              models.StakingStatusCompleted,
	}
	require.NoError(t, database.DB.Create(&position).Error)
	return &position
}

func TestRequestStakingWithdrawalReservesFunds(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 50)
	position := completedPosition(t, user, 1000, 50)

	withdrawal, err := RequestStakingWithdrawal(user.ID, position.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, withdrawal.Status)
	assert.Equal(t, models.WithdrawalKindStakingProfit, withdrawal.Kind)

	assert.Equal(t, 20.0, reloadPosition(t, position.ID).ProfitsEarned)
	assert.Equal(t, 20.0, reloadUser(t, user).Balance)

	// The remaining profit cannot cover a second oversized request.
	_, err = RequestStakingWithdrawal(user.ID, position.ID, 25)
	assert.ErrorIs(t, err, ErrInsufficientProfit)
}

func TestRequestStakingWithdrawalGuards(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, 100)
	stranger := createTestUser(t, 100)

	now := time.Now()
	active := createTestPosition(t, owner, 1000, now, now.AddDate(0, 3, 0))

	_, err := RequestStakingWithdrawal(stranger.ID, active.ID, 10)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = RequestStakingWithdrawal(owner.ID, active.ID, 10)
	assert.ErrorIs(t, err, ErrNotCompleted)

	_, err = RequestStakingWithdrawal(owner.ID, active.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestApproveWithdrawalNoFurtherMutation(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 50)
	admin := createTestUser(t, 0)
	position := completedPosition(t, user, 1000, 50)

	withdrawal, err := RequestStakingWithdrawal(user.ID, position.ID, 50)
	require.NoError(t, err)
	balanceAfterRequest := reloadUser(t, user).Balance

	approved, err := ApproveWithdrawal(withdrawal.ID, admin.ID, "tron:abc123")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)
	require.NotNil(t, approved.PayoutRef)
	assert.Equal(t, "tron:abc123", *approved.PayoutRef)

	assert.Equal(t, balanceAfterRequest, reloadUser(t, user).Balance)

	// Approved is terminal against replay.
	_, err = ApproveWithdrawal(withdrawal.ID, admin.ID, "tron:abc123")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = RejectWithdrawal(withdrawal.ID, admin.ID, "too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectStakingWithdrawalRestoresExactly(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 3.57)
	admin := createTestUser(t, 0)
	position := completedPosition(t, user, 1000, 3.57)

	withdrawal, err := RequestStakingWithdrawal(user.ID, position.ID, 3.57)
	require.NoError(t, err)

	_, err = RejectWithdrawal(withdrawal.ID, admin.ID, "payout channel unavailable")
	require.NoError(t, err)

	assert.Equal(t, 3.57, reloadUser(t, user).Balance)
	assert.Equal(t, 3.57, reloadPosition(t, position.ID).ProfitsEarned)
}

func TestReferralWithdrawalLifecycle(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 80)
	admin := createTestUser(t, 0)

	require.NoError(t, CreditReferralEarnings(database.DB, user.ID, 80))

	withdrawal, err := RequestReferralWithdrawal(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, withdrawal.Amount)
	assert.Equal(t, models.WithdrawalKindReferralEarnings, withdrawal.Kind)

	fresh := reloadUser(t, user)
	assert.Equal(t, 0.0, fresh.ReferralEarnings)
	assert.Equal(t, 0.0, fresh.Balance)

	// Nothing left to withdraw.
	_, err = RequestReferralWithdrawal(user.ID)
	assert.ErrorIs(t, err, ErrNoEarnings)

	_, err = RejectWithdrawal(withdrawal.ID, admin.ID, "wallet mismatch")
	require.NoError(t, err)

	fresh = reloadUser(t, user)
	assert.Equal(t, 80.0, fresh.ReferralEarnings)
	assert.Equal(t, 80.0, fresh.Balance)
}
