package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DepositStatusPending   = "pending"
	DepositStatusConfirmed = "confirmed"
	DepositStatusRejected  = "rejected"
)

const (
	NetworkTRC20 = "trc20"
	NetworkERC20 = "erc20"
	NetworkBEP20 = "bep20"
)

type Deposit struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount float64   `gorm:"type:numeric(14,2);not null" json:"amount"`

	// ExternalTxID is the on-chain transaction hash supplied by the depositor.
	// Globally unique; the dedup key for replayed submissions.
	ExternalTxID string `gorm:"size:255;not null;unique" json:"external_tx_id"`
	Network      string `gorm:"size:10;not null" json:"network"`

	Status     string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	ProofURL   *string `gorm:"size:255" json:"proof_url"`
	AdminNotes *string `gorm:"type:text" json:"admin_notes,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
