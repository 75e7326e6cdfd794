package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"projecthub-backend/shared/database"
	"projecthub-backend/shared/database/models"
	"projecthub-backend/shared/utils/apperror"
	utils "projecthub-backend/shared/utils/auth"
	"projecthub-backend/shared/utils/permission"
)

type OrganizationStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	Update(ctx context.Context, id uuid.UUID, name, slug string) (*models.Organization, error)
}

type MemberLister interface {
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]models.Member, error)
}

type UpdateOrganizationInput struct {
	Name *string `json:"name" binding:"omitempty,max=200"`
	Slug *string `json:"slug" binding:"omitempty,max=100"`
}

// MemberView is a member with the role the resolver will actually apply.
type MemberView struct {
	UserID   uuid.UUID       `json:"userId"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     permission.Role `json:"role"`
	JoinedAt time.Time       `json:"joinedAt"`
}

type OrganizationService struct {
	orgs    OrganizationStore
	members MemberLister
	authz   Authorizer
}

func NewOrganizationService(orgs OrganizationStore, members MemberLister, authz Authorizer) *OrganizationService {
	return &OrganizationService{orgs: orgs, members: members, authz: authz}
}

func (s *OrganizationService) Get(ctx context.Context, actor Actor) (*models.Organization, error) {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionSettingsRead); err != nil {
		return nil, err
	}
	org, err := s.orgs.Get(ctx, actor.OrganizationID)
	if err != nil {
		return nil, mapOrganizationError(err)
	}
	return org, nil
}

func (s *OrganizationService) Update(ctx context.Context, actor Actor, in UpdateOrganizationInput) (*models.Organization, error) {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionSettingsUpdate); err != nil {
		return nil, err
	}

	var name, slug string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if err := utils.ValidateLength(name, "name", 1, 200); err != nil {
			return nil, apperror.Validation(err.Error(), err)
		}
	}
	if in.Slug != nil {
		slug = strings.TrimSpace(*in.Slug)
		if err := utils.ValidateSlug(slug); err != nil {
			return nil, apperror.Validation(err.Error(), err)
		}
	}

	org, err := s.orgs.Update(ctx, actor.OrganizationID, name, slug)
	if err != nil {
		return nil, mapOrganizationError(err)
	}
	return org, nil
}

func (s *OrganizationService) ListMembers(ctx context.Context, actor Actor) ([]MemberView, error) {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionSettingsRead); err != nil {
		return nil, err
	}

	members, err := s.members.ListMembers(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	views := make([]MemberView, 0, len(members))
	for _, member := range members {
		role, ok := permission.ParseRole(member.Role)
		if !ok {
			role = permission.DefaultRole
		}
		view := MemberView{
			UserID:   member.UserID,
			Role:     role,
			JoinedAt: member.CreatedAt,
		}
		if member.User != nil {
			view.Email = member.User.Email
			view.Name = member.User.Name
		}
		views = append(views, view)
	}
	return views, nil
}

func mapOrganizationError(err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return apperror.NotFound("Organization not found")
	case errors.Is(err, database.ErrConflict):
		return apperror.Conflict("Slug is already taken")
	}
	return err
}
