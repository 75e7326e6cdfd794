// Package permission maps organization roles to the actions they may perform.
package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"projecthub-backend/shared/database"
	"projecthub-backend/shared/utils/apperror"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
	RoleViewer  Role = "viewer"
)

// DefaultRole applies to users without a membership row or with an unrecognised role.
const DefaultRole = RoleViewer

type Action string

const (
	ActionProjectsCreate Action = "projects:create"
	ActionProjectsRead   Action = "projects:read"
	ActionProjectsUpdate Action = "projects:update"
	ActionProjectsDelete Action = "projects:delete"
	ActionProjectsAssign Action = "projects:assign"
	ActionSettingsRead   Action = "settings:read"
	ActionSettingsUpdate Action = "settings:update"
)

// AllActions lists every action known to the resolver.
var AllActions = []Action{
	ActionProjectsCreate,
	ActionProjectsRead,
	ActionProjectsUpdate,
	ActionProjectsDelete,
	ActionProjectsAssign,
	ActionSettingsRead,
	ActionSettingsUpdate,
}

var rolePermissions = map[Role][]Action{
	RoleAdmin: AllActions,
	RoleManager: {
		ActionProjectsCreate,
		ActionProjectsRead,
		ActionProjectsUpdate,
		ActionProjectsAssign,
		ActionSettingsRead,
	},
	RoleMember: {
		ActionProjectsCreate,
		ActionProjectsRead,
		ActionProjectsUpdate,
	},
	RoleViewer: {
		ActionProjectsRead,
	},
}

// ParseRole converts a stored role string. ok is false for unknown values.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	_, ok := rolePermissions[role]
	return role, ok
}

// HasPermission reports whether role may perform action.
func HasPermission(role Role, action Action) bool {
	for _, allowed := range rolePermissions[role] {
		if allowed == action {
			return true
		}
	}
	return false
}

// MemberLookup returns a user's stored role within an organization.
// It returns database.ErrNotFound when there is no membership.
type MemberLookup interface {
	GetMemberRole(ctx context.Context, userID, orgID uuid.UUID) (string, error)
}

// Resolver answers permission questions for a user within an organization.
// Roles are read on every call.
type Resolver struct {
	members MemberLookup
}

func NewResolver(members MemberLookup) *Resolver {
	return &Resolver{members: members}
}

// GetUserRole returns the user's role, falling back to DefaultRole.
func (r *Resolver) GetUserRole(ctx context.Context, userID, orgID uuid.UUID) (Role, error) {
	stored, err := r.members.GetMemberRole(ctx, userID, orgID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return DefaultRole, nil
		}
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	role, ok := ParseRole(stored)
	if !ok {
		return DefaultRole, nil
	}
	return role, nil
}

// RequirePermission returns nil when the user may perform action in orgID.
func (r *Resolver) RequirePermission(ctx context.Context, userID, orgID uuid.UUID, action Action) error {
	if userID == uuid.Nil {
		return apperror.Unauthorized("Authentication required")
	}
	role, err := r.GetUserRole(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if !HasPermission(role, action) {
		return apperror.Forbidden(fmt.Sprintf("Role %s cannot perform %s", role, action))
	}
	return nil
}
