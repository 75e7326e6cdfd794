package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"projecthub-backend/shared/database/models"
	"projecthub-backend/shared/utils/query"
)

// ErrNotFound is returned when a row is missing or outside the caller's scope.
var ErrNotFound = errors.New("record not found")

// ProjectFilter narrows a project listing within one organization.
type ProjectFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

var projectSearchFields = []string{"name", "description"}

var projectFilterFields = map[string]string{
	"status": "status",
}

// ProjectStore is the gorm-backed project repository.
type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// scoped always applies tenant scope and hides soft-deleted rows.
func (s *ProjectStore) scoped(ctx context.Context, orgID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("organization_id = ? AND is_active = ?", orgID, true)
}

func (s *ProjectStore) filtered(ctx context.Context, orgID uuid.UUID, filter ProjectFilter) *gorm.DB {
	q := s.scoped(ctx, orgID)
	q = query.ApplyFilters(q, map[string]string{"status": filter.Status}, projectFilterFields)
	return query.ApplySearch(q, filter.Search, projectSearchFields)
}

// List returns one page of matching projects, newest first.
func (s *ProjectStore) List(ctx context.Context, orgID uuid.UUID, filter ProjectFilter) ([]models.Project, error) {
	q := s.filtered(ctx, orgID, filter).Order("created_at DESC")
	q = query.ApplyOffsetPagination(q, filter.Limit, filter.Offset)

	projects := []models.Project{}
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Count returns the number of projects matching filter, ignoring pagination.
func (s *ProjectStore) Count(ctx context.Context, orgID uuid.UUID, filter ProjectFilter) (int64, error) {
	var total int64
	if err := s.filtered(ctx, orgID, filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return total, nil
}

func (s *ProjectStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.scoped(ctx, orgID).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

func (s *ProjectStore) Create(ctx context.Context, project *models.Project) error {
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Update applies column updates to an active project and returns the fresh row.
// Callers must not pass organization_id.
func (s *ProjectStore) Update(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) (*models.Project, error) {
	delete(updates, "organization_id")
	updates["updated_at"] = time.Now().UTC()

	result := s.scoped(ctx, orgID).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, orgID, id)
}

// SoftDelete marks an active project inactive. The row is kept.
func (s *ProjectStore) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	result := s.scoped(ctx, orgID).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
