package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"projecthub-backend/shared/database/models"
)

type APIKeyStore struct {
	db *gorm.DB
}

func NewAPIKeyStore(db *gorm.DB) *APIKeyStore {
	return &APIKeyStore{db: db}
}

func (s *APIKeyStore) Create(ctx context.Context, key *models.APIKey) error {
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// FindActiveByPrefix returns the non-revoked key with the given prefix.
func (s *APIKeyStore) FindActiveByPrefix(ctx context.Context, prefix string) (*models.APIKey, error) {
	var key models.APIKey
	err := s.db.WithContext(ctx).
		Where("prefix = ? AND revoked_at IS NULL", prefix).
		Take(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find api key: %w", err)
	}
	return &key, nil
}

// TouchLastUsed records a successful authentication with the key.
func (s *APIKeyStore) TouchLastUsed(ctx context.Context, key *models.APIKey) error {
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(key).Update("last_used_at", now).Error; err != nil {
		return fmt.Errorf("failed to update api key usage: %w", err)
	}
	key.LastUsedAt = &now
	return nil
}
