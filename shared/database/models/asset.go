package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Asset struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID                   `json:"userId" gorm:"type:uuid;not null;index:idx_assets_user_id"`
	OrganizationID *uuid.UUID                  `json:"organizationId" gorm:"type:uuid"`
	Name           string                      `json:"name" gorm:"size:255;not null"`
	URL            string                      `json:"url" gorm:"type:text;not null"`
	ObjectKey      string                      `json:"objectKey,omitempty" gorm:"size:512"`
	Tags           datatypes.JSONSlice[string] `json:"tags" gorm:"not null"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Tags == nil {
		a.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}
