package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind    string    `gorm:"size:50;not null" json:"kind"`
	Title   string    `gorm:"size:255;not null" json:"title"`
	Message string    `gorm:"type:text;not null" json:"message"`

	RelatedEntityID   *uuid.UUID `gorm:"type:uuid" json:"related_entity_id,omitempty"`
	RelatedEntityType *string    `gorm:"size:50" json:"related_entity_type,omitempty"`

	IsRead bool `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}
