package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID     uint      `gorm:"index;not null" json:"group_id"`
	GroupName   string    `gorm:"-" json:"group_name,omitempty"`
	Wallet      string    `gorm:"size:64" json:"wallet"`
	Type        string    `gorm:"not null;size:30" json:"type"` // group_created, proposal_created, vote_cast, proposal_approved, member_joined, funds_released
	ReferenceID uint      `json:"reference_id,omitempty"`       // proposal id where applicable
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
