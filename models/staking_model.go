package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StakingStatusActive    = "active"
	StakingStatusCompleted = "completed"
)

type StakingPosition struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Principal float64 `gorm:"type:numeric(14,2);not null" json:"principal"`

	// WeeklyReturnPercent is frozen from the tier table at creation time. Later
	// tier changes never touch existing positions.
	WeeklyReturnPercent float64 `gorm:"type:numeric(5,2);not null" json:"weekly_return_percent"`

	LockPeriodMonths int       `gorm:"not null" json:"lock_period_months"`
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`

	// LastAccrualDate doubles as the accrual idempotency token: the batch only
	// advances it with a guarded update, so a replayed run is a no-op.
	LastAccrualDate time.Time `gorm:"not null" json:"last_accrual_date"`
	ProfitsEarned   float64   `gorm:"type:numeric(14,2);not null;default:0.00" json:"profits_earned"`

	Status string `gorm:"size:20;not null;default:'active'" json:"status"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
