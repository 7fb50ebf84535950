package services

import (
	"testing"

	"github.com/usdstake/backend/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitDepositBelowMinimum(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 0)

	_, err := SubmitDeposit(user.ID, MinimumDepositAmount-0.01, gofakeit.LetterN(64), models.NetworkERC20, nil)
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestSubmitDepositDuplicateTxID(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, 0)
	bob := createTestUser(t, 0)

	txID := gofakeit.LetterN(64)
	_, err := SubmitDeposit(alice.ID, 500, txID, models.NetworkERC20, nil)
	require.NoError(t, err)

	// The dedup key wins regardless of account or amount.
	_, err = SubmitDeposit(bob.ID, 999, txID, models.NetworkBEP20, nil)
	assert.ErrorIs(t, err, ErrDuplicateTxID)
}

func TestConfirmDepositCreditsExactlyOnce(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 0)

	deposit, err := SubmitDeposit(user.ID, 1000, gofakeit.LetterN(64), models.NetworkERC20, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusPending, deposit.Status)
	assert.Equal(t, 0.0, reloadUser(t, user).Balance)

	confirmed, err := ConfirmDeposit(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusConfirmed, confirmed.Status)
	assert.Equal(t, 1000.0, reloadUser(t, user).Balance)

	// Replaying the approval is rejected, not re-applied.
	_, err = ConfirmDeposit(deposit.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 1000.0, reloadUser(t, user).Balance)
}

func TestRejectDepositHasNoBalanceEffect(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 0)

	deposit, err := SubmitDeposit(user.ID, 500, gofakeit.LetterN(64), models.NetworkERC20, nil)
	require.NoError(t, err)

	rejected, err := RejectDeposit(deposit.ID, "transaction not found on chain")
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusRejected, rejected.Status)
	assert.Equal(t, 0.0, reloadUser(t, user).Balance)

	// Rejected is terminal.
	_, err = ConfirmDeposit(deposit.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
