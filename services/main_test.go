package services

import (
	"path/filepath"
	"testing"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "usdstake_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Deposit{},
		&models.StakingPosition{},
		&models.Withdrawal{},
		&models.Referral{},
		&models.Notification{},
	))

	database.DB = db
}

func createTestUser(t *testing.T, balance float64) *models.User {
	t.Helper()

	code := gofakeit.LetterN(8)
	user := models.User{
		FullName:     gofakeit.Name(),
		Email:        gofakeit.Email(),
		Password:     "not-a-real-hash",
		Role:         "user",
		Balance:      balance,
		ReferralCode: &code,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return &user
}

func reloadUser(t *testing.T, user *models.User) *models.User {
	t.Helper()

	var fresh models.User
	require.NoError(t, database.DB.First(&fresh, "id = ?", user.ID).Error)
	return &fresh
}

func reloadPosition(t *testing.T, positionID uuid.UUID) *models.StakingPosition {
	t.Helper()

	var fresh models.StakingPosition
	require.NoError(t, database.DB.First(&fresh, "id = ?", positionID).Error)
	return &fresh
}
