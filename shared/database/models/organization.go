package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant boundary for all project data.
type Organization struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Slug      string    `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Plan      string    `json:"plan" gorm:"size:50;not null;default:'free'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Plan == "" {
		o.Plan = "free"
	}
	return nil
}
