package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"projecthub-backend/shared/database/models"
)

type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Save(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}
	return nil
}
