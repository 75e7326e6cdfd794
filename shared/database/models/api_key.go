package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey authenticates machine callers on behalf of a user within one organization.
// Only the bcrypt hash of the secret is stored; Prefix is used for lookup.
type APIKey struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID  `json:"organizationId" gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Name           string     `json:"name" gorm:"size:100;not null"`
	Prefix         string     `json:"prefix" gorm:"size:16;uniqueIndex;not null"`
	KeyHash        string     `json:"-" gorm:"not null"`
	LastUsedAt     *time.Time `json:"lastUsedAt"`
	RevokedAt      *time.Time `json:"revokedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
