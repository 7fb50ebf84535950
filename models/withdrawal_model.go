package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

const (
	WithdrawalKindStakingProfit    = "staking_profit"
	WithdrawalKindReferralEarnings = "referral_earnings"
)

type Withdrawal struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount float64   `gorm:"type:numeric(14,2);not null" json:"amount"`
	Kind   string    `gorm:"size:30;not null" json:"kind"`

	// SourceStakingID is set iff Kind == staking_profit; the debited position.
	SourceStakingID *uuid.UUID `gorm:"type:uuid" json:"source_staking_id,omitempty"`

	Status     string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	PayoutRef  *string `gorm:"size:255" json:"payout_ref,omitempty"`
	AdminNotes *string `gorm:"type:text" json:"admin_notes,omitempty"`

	ApprovedBy  *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	User          User             `gorm:"foreignkey:UserID" json:"-"`
	SourceStaking *StakingPosition `gorm:"foreignkey:SourceStakingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
