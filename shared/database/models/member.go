package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member joins a user to an organization. Role is stored as free text and
// validated on read.
type Member struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `json:"organizationId" gorm:"type:uuid;not null;uniqueIndex:idx_members_org_user"`
	UserID         uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_members_org_user"`
	Role           string    `json:"role" gorm:"size:50;not null;default:'viewer'"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
