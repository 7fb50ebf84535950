package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// Referral links a referrer to a referred user. Created at registration when a
// valid referral code is used; completed exactly once, on the referred user's
// first staking position. The unique ReferredUserID is the once-only guard.
type Referral struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReferrerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"referrer_id"`
	ReferredUserID uuid.UUID `gorm:"type:uuid;not null;unique" json:"referred_user_id"`
	Status         string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	RewardAmount   float64   `gorm:"type:numeric(14,2);not null;default:0.00" json:"reward_amount"`

	Referrer     User `gorm:"foreignkey:ReferrerID" json:"-"`
	ReferredUser User `gorm:"foreignkey:ReferredUserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
