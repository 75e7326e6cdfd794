package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"projecthub-backend/shared/database/models"
)

// ErrConflict is returned when a unique attribute is already taken.
var ErrConflict = errors.New("record already exists")

type OrganizationStore struct {
	db *gorm.DB
}

func NewOrganizationStore(db *gorm.DB) *OrganizationStore {
	return &OrganizationStore{db: db}
}

func (s *OrganizationStore) Get(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// Update changes name and/or slug. Empty values are left untouched.
func (s *OrganizationStore) Update(ctx context.Context, id uuid.UUID, name, slug string) (*models.Organization, error) {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if slug != "" {
		var existing models.Organization
		err := s.db.WithContext(ctx).Where("slug = ? AND id <> ?", slug, id).Take(&existing).Error
		if err == nil {
			return nil, ErrConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		updates["slug"] = slug
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		result := s.db.WithContext(ctx).Model(&models.Organization{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update organization: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.Get(ctx, id)
}
