package notifications

import (
	"fmt"
	"log"

	"github.com/usdstake/backend/database"
	"github.com/usdstake/backend/models"
	"github.com/usdstake/backend/websocket"
	"github.com/google/uuid"
)

// Notification kinds used across the platform.
const (
	KindDeposit    = "deposit"
	KindStaking    = "staking"
	KindWithdrawal = "withdrawal"
	KindReferral   = "referral"
)

// Notify is fire-and-forget: it records an in-app notification, pushes it over
// the websocket hub and mirrors it to email when the client is configured.
// Callers invoke it with `go` after their transaction commits; a notification
// failure must never roll back a financial operation.
func Notify(userID uuid.UUID, kind, title, message string, relatedID *uuid.UUID, relatedType *string) {
	notification := models.Notification{
		UserID:            userID,
		Kind:              kind,
		Title:             title,
		Message:           message,
		RelatedEntityID:   relatedID,
		RelatedEntityType: relatedType,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("🔥 Failed to store notification for user %s: %v", userID, err)
		return
	}

	websocket.PushToUser(userID, notification)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("Notification recipient %s not found for email delivery: %v", userID, err)
		return
	}
	SendEmail(user.FullName, user.Email, title, fmt.Sprintf("<h1>%s</h1><p>%s</p>", title, message))
}

// NotifyAdmins fans the same notification out to every admin account.
func NotifyAdmins(kind, title, message string, relatedID *uuid.UUID, relatedType *string) {
	var adminIDs []uuid.UUID
	err := database.DB.Model(&models.User{}).Where("role = ?", "admin").Pluck("id", &adminIDs).Error
	if err != nil {
		log.Printf("🔥 Failed to look up admin accounts for notification: %v", err)
		return
	}

	for _, adminID := range adminIDs {
		Notify(adminID, kind, title, message, relatedID, relatedType)
	}
}
