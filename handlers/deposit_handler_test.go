package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/routes"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)

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

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.DepositRoutes(app)
	routes.StakingRoutes(app)
	routes.WithdrawalRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func createUser(t *testing.T, role string) *models.User {
	t.Helper()

	code := gofakeit.LetterN(8)
	user := models.User{
		FullName:     gofakeit.Name(),
		Email:        gofakeit.Email(),
		Password:     "not-a-real-hash",
		Role:         role,
		ReferralCode: &code,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return &user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	if len(respBody) > 0 {
		json.Unmarshal(respBody, &parsed)
	}
	return resp, parsed
}

func TestDepositSubmissionAndApprovalFlow(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "user")
	admin := createUser(t, "admin")
	userToken := tokenFor(t, user)
	adminToken := tokenFor(t, admin)

	txID := gofakeit.LetterN(64)
	resp, body := doJSON(t, app, "POST", "/api/v1/deposits", userToken, fiber.Map{
		"amount":         1000,
		"external_tx_id": txID,
		"network":        "erc20",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])
	depositID := body["id"].(string)

	// Same external tx id again, different amount: rejected as duplicate.
	resp, _ = doJSON(t, app, "POST", "/api/v1/deposits", userToken, fiber.Map{
		"amount":         500,
		"external_tx_id": txID,
		"network":        "trc20",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Ordinary users cannot approve.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/admin/deposits/%s/approve", depositID), userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/admin/deposits/%s/approve", depositID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "confirmed", body["status"])

	assert.Equal(t, 1000.0, freshBalance(t, user))

	// Replayed approval is a 400, not a second credit.
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/admin/deposits/%s/approve", depositID), adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1000.0, freshBalance(t, user))
}

func TestStakingEndpointValidation(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "user")
	userToken := tokenFor(t, user)

	// No balance yet.
	resp, _ := doJSON(t, app, "POST", "/api/v1/staking", userToken, fiber.Map{
		"principal":          500,
		"lock_period_months": 3,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	require.NoError(t, database.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("balance", 500).Error)

	resp, body := doJSON(t, app, "POST", "/api/v1/staking", userToken, fiber.Map{
		"principal":          500,
		"lock_period_months": 3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, 2.5, body["weekly_return_percent"])
	assert.Equal(t, 0.0, freshBalance(t, user))

	// Unauthenticated requests never reach the handler.
	resp, _ = doJSON(t, app, "POST", "/api/v1/staking", "", fiber.Map{
		"principal":          500,
		"lock_period_months": 3,
	})
	assert.NotEqual(t, fiber.StatusCreated, resp.StatusCode)
}

func freshBalance(t *testing.T, user *models.User) float64 {
	t.Helper()

	var fresh models.User
	require.NoError(t, database.DB.First(&fresh, "id = ?", user.ID).Error)
	return fresh.Balance
}
