package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"projecthub-backend/shared/database/models"
)

// MemberStore reads organization memberships.
type MemberStore struct {
	db *gorm.DB
}

func NewMemberStore(db *gorm.DB) *MemberStore {
	return &MemberStore{db: db}
}

// GetMemberRole returns the stored role string, or ErrNotFound when the user
// has no membership in the organization.
func (s *MemberStore) GetMemberRole(ctx context.Context, userID, orgID uuid.UUID) (string, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		Limit(1).
		Take(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load member: %w", err)
	}
	return member.Role, nil
}

// ListMembers returns the organization's members with their users, oldest first.
func (s *MemberStore) ListMembers(ctx context.Context, orgID uuid.UUID) ([]models.Member, error) {
	members := []models.Member{}
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
