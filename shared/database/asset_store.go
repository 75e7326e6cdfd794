package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"projecthub-backend/shared/database/models"
)

// AssetStore persists asset metadata. Every query is scoped to the owning user.
type AssetStore struct {
	db *gorm.DB
}

func NewAssetStore(db *gorm.DB) *AssetStore {
	return &AssetStore{db: db}
}

func (s *AssetStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Asset, error) {
	assets := []models.Asset{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (s *AssetStore) Create(ctx context.Context, asset *models.Asset) error {
	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (s *AssetStore) Get(ctx context.Context, userID, id uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &asset, nil
}

func (s *AssetStore) UpdateTags(ctx context.Context, userID, id uuid.UUID, tags []string) (*models.Asset, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"tags":       datatypes.NewJSONSlice(tags),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

// Delete removes the listed assets owned by userID and returns the deleted rows.
func (s *AssetStore) Delete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Asset, error) {
	if len(ids) == 0 {
		return []models.Asset{}, nil
	}

	var deleted []models.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ? AND user_id = ?", ids, userID).Find(&deleted).Error; err != nil {
			return err
		}
		if len(deleted) == 0 {
			return nil
		}
		return tx.Where("id IN ? AND user_id = ?", ids, userID).Delete(&models.Asset{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete assets: %w", err)
	}
	return deleted, nil
}
