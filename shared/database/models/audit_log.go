package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records one mutating API request.
type AuditLog struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         *uuid.UUID `json:"userId,omitempty" gorm:"type:uuid;index"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty" gorm:"type:uuid;index"`
	Method         string     `json:"method" gorm:"type:varchar(10);not null"`
	Path           string     `json:"path" gorm:"type:varchar(500);not null"`
	StatusCode     int        `json:"statusCode" gorm:"not null;index"`
	IPAddress      string     `json:"ipAddress" gorm:"type:varchar(45)"`
	UserAgent      string     `json:"userAgent" gorm:"type:text"`
	Duration       int64      `json:"durationMs" gorm:"not null"` // milliseconds
	RequestID      string     `json:"requestId" gorm:"type:varchar(100);index"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
