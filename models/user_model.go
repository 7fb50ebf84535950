package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'user'" json:"role"`

	// Balance is the spendable ledger balance. It is only ever mutated inside a
	// transaction holding a FOR UPDATE lock on this row (see services/ledger_service.go)
	// and must never go negative.
	Balance          float64 `gorm:"type:numeric(14,2);not null;default:0.00" json:"balance"`
	ReferralEarnings float64 `gorm:"type:numeric(14,2);not null;default:0.00" json:"referral_earnings"`

	ReferralCode   *string `gorm:"size:10;unique" json:"referral_code"`
	ReferredByCode *string `gorm:"size:10" json:"referred_by_code"`

	WalletAddress *string `gorm:"size:255" json:"wallet_address"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
