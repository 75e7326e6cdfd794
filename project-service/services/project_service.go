package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"projecthub-backend/shared/database"
	"projecthub-backend/shared/database/models"
	"projecthub-backend/shared/utils/apperror"
	"projecthub-backend/shared/utils/cache"
	"projecthub-backend/shared/utils/permission"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var decimalRegex = regexp.MustCompile(`^-?\d{1,13}(\.\d{1,2})?$`)

// Actor is the authenticated caller and the organization it is acting in.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

// ProjectStore is the persistence the project service needs.
type ProjectStore interface {
	List(ctx context.Context, orgID uuid.UUID, filter database.ProjectFilter) ([]models.Project, error)
	Count(ctx context.Context, orgID uuid.UUID, filter database.ProjectFilter) (int64, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) (*models.Project, error)
	SoftDelete(ctx context.Context, orgID, id uuid.UUID) error
}

// Authorizer is satisfied by *permission.Resolver.
type Authorizer interface {
	RequirePermission(ctx context.Context, userID, orgID uuid.UUID, action permission.Action) error
}

// ListProjectsInput is also the cache key payload, so field order matters.
type ListProjectsInput struct {
	Search string `json:"search" form:"search"`
	Status string `json:"status" form:"status"`
	Limit  int    `json:"limit" form:"limit"`
	Offset int    `json:"offset" form:"offset"`
}

// Normalize applies defaults and validates bounds.
func (in ListProjectsInput) Normalize() (ListProjectsInput, error) {
	in.Search = strings.TrimSpace(in.Search)
	if in.Limit == 0 {
		in.Limit = DefaultListLimit
	}
	if in.Limit < 1 || in.Limit > MaxListLimit {
		return in, apperror.Validation(fmt.Sprintf("limit must be between 1 and %d", MaxListLimit), nil)
	}
	if in.Offset < 0 {
		return in, apperror.Validation("offset must not be negative", nil)
	}
	if in.Status != "" && !models.ProjectStatus(in.Status).Valid() {
		return in, apperror.Validation(fmt.Sprintf("invalid status %q", in.Status), nil)
	}
	return in, nil
}

type ProjectList struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
}

type CreateProjectInput struct {
	Name             string                 `json:"name" binding:"required,max=255"`
	Description      *string                `json:"description"`
	Status           models.ProjectStatus   `json:"status"`
	Priority         models.ProjectPriority `json:"priority"`
	StartDate        *time.Time             `json:"startDate"`
	EndDate          *time.Time             `json:"endDate"`
	Deadline         *time.Time             `json:"deadline"`
	Budget           *string                `json:"budget"`
	Spent            *string                `json:"spent"`
	Progress         *int                   `json:"progress" binding:"omitempty,min=0,max=100"`
	ClientID         *uuid.UUID             `json:"clientId"`
	ProjectManagerID *uuid.UUID             `json:"projectManagerId"`
}

// UpdateProjectInput changes only the fields that are set.
type UpdateProjectInput struct {
	Name             *string                 `json:"name" binding:"omitempty,max=255"`
	Description      *string                 `json:"description"`
	Status           *models.ProjectStatus   `json:"status"`
	Priority         *models.ProjectPriority `json:"priority"`
	StartDate        *time.Time              `json:"startDate"`
	EndDate          *time.Time              `json:"endDate"`
	Deadline         *time.Time              `json:"deadline"`
	Budget           *string                 `json:"budget"`
	Spent            *string                 `json:"spent"`
	Progress         *int                    `json:"progress" binding:"omitempty,min=0,max=100"`
	ClientID         *uuid.UUID              `json:"clientId"`
	ProjectManagerID *uuid.UUID              `json:"projectManagerId"`
}

type ProjectServiceDeps struct {
	Store      ProjectStore
	Cache      cache.Cache
	Authorizer Authorizer
	Events     EventPublisher
	TTL        time.Duration
	Logger     *slog.Logger
}

// ProjectService implements project CRUD with permission checks, a read-through
// cache and prefix invalidation on writes.
type ProjectService struct {
	store  ProjectStore
	cache  cache.Cache
	authz  Authorizer
	events EventPublisher
	ttl    time.Duration
	logger *slog.Logger
}

func NewProjectService(deps ProjectServiceDeps) *ProjectService {
	s := &ProjectService{
		store:  deps.Store,
		cache:  deps.Cache,
		authz:  deps.Authorizer,
		events: deps.Events,
		ttl:    deps.TTL,
		logger: deps.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = cache.DefaultTTL
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.events == nil {
		s.events = NopPublisher{}
	}
	return s
}

// List returns one page of active projects and the total match count.
func (s *ProjectService) List(ctx context.Context, actor Actor, in ListProjectsInput) (*ProjectList, error) {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionProjectsRead); err != nil {
		return nil, err
	}

	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	generation := s.generation(ctx, actor.OrganizationID)
	key, err := cache.ProjectListKey(actor.OrganizationID, generation, in)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var cached ProjectList
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	filter := database.ProjectFilter{
		Search: in.Search,
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	}

	result := ProjectList{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := s.store.List(gctx, actor.OrganizationID, filter)
		result.Projects = projects
		return err
	})
	g.Go(func() error {
		total, err := s.store.Count(gctx, actor.OrganizationID, filter)
		result.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.writeCache(ctx, key, &result)
	return &result, nil
}

func (s *ProjectService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Project, error) {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionProjectsRead); err != nil {
		return nil, err
	}

	key := cache.ProjectKey(actor.OrganizationID, s.generation(ctx, actor.OrganizationID), id)
	var cached models.Project
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	project, err := s.store.Get(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.writeCache(ctx, key, project)
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, actor Actor, in CreateProjectInput) (*models.Project, error) {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionProjectsCreate); err != nil {
		return nil, err
	}
	if in.ProjectManagerID != nil {
		if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionProjectsAssign); err != nil {
			return nil, err
		}
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	project := &models.Project{
		OrganizationID:   actor.OrganizationID,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		Status:           in.Status,
		Priority:         in.Priority,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Deadline:         in.Deadline,
		Budget:           in.Budget,
		Spent:            in.Spent,
		ClientID:         in.ClientID,
		ProjectManagerID: in.ProjectManagerID,
		IsActive:         true,
		CreatedBy:        actor.UserID,
	}
	if in.Progress != nil {
		project.Progress = *in.Progress
	}

	if err := s.store.Create(ctx, project); err != nil {
		return nil, err
	}

	s.invalidate(ctx, actor.OrganizationID, nil)
	s.publish(EventProjectCreated, actor, project.ID)
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateProjectInput) (*models.Project, error) {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionProjectsUpdate); err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if in.ProjectManagerID != nil && !sameUUID(current.ProjectManagerID, in.ProjectManagerID) {
		if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionProjectsAssign); err != nil {
			return nil, err
		}
	}

	updates, err := buildUpdates(current, in)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return current, nil
	}

	project, err := s.store.Update(ctx, actor.OrganizationID, id, updates)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.invalidate(ctx, actor.OrganizationID, &id)
	s.publish(EventProjectUpdated, actor, id)
	return project, nil
}

// Delete soft deletes the project. The row is kept with isActive=false.
func (s *ProjectService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.authz.RequirePermission(ctx, actor.UserID, actor.OrganizationID, permission.ActionProjectsDelete); err != nil {
		return err
	}

	if err := s.store.SoftDelete(ctx, actor.OrganizationID, id); err != nil {
		return mapStoreError(err)
	}

	s.invalidate(ctx, actor.OrganizationID, &id)
	s.publish(EventProjectDeleted, actor, id)
	return nil
}

// readCache treats every cache failure as a miss.
func (s *ProjectService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WarnContext(ctx, "Cache read failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return found
}

func (s *ProjectService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "Cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// generation returns the organization's current cache generation. It is read
// before the store is queried, so a fill that races a write is stored under a
// key that readers stop using once the write bumps the generation.
func (s *ProjectService) generation(ctx context.Context, orgID uuid.UUID) string {
	var generation string
	if !s.readCache(ctx, cache.ProjectGenerationKey(orgID), &generation) || generation == "" {
		return cache.InitialGeneration
	}
	return generation
}

// invalidate bumps the organization's generation, then drops every cached
// list and, when projectID is set, the cached entity. Failures are logged and
// not retried; stale reads are then bounded by the TTL.
func (s *ProjectService) invalidate(ctx context.Context, orgID uuid.UUID, projectID *uuid.UUID) {
	if s.cache == nil {
		return
	}
	previous := s.generation(ctx, orgID)
	genKey := cache.ProjectGenerationKey(orgID)
	if err := s.cache.Set(ctx, genKey, uuid.NewString(), 0); err != nil {
		s.logger.WarnContext(ctx, "Cache generation bump failed", slog.String("key", genKey), slog.Any("error", err))
	}
	if err := s.cache.DeleteByPrefix(ctx, cache.ProjectListPrefix(orgID)); err != nil {
		s.logger.WarnContext(ctx, "Cache invalidation failed",
			slog.String("organization_id", orgID.String()), slog.Any("error", err))
	}
	if projectID != nil {
		key := cache.ProjectKey(orgID, previous, *projectID)
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "Cache invalidation failed", slog.String("key", key), slog.Any("error", err))
		}
	}
}

func (s *ProjectService) publish(eventType EventType, actor Actor, projectID uuid.UUID) {
	s.events.Publish(ProjectEvent{
		Type:           eventType,
		OrganizationID: actor.OrganizationID,
		ProjectID:      projectID,
		ActorID:        actor.UserID,
		Timestamp:      time.Now().UTC(),
	})
}

func mapStoreError(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperror.NotFound("Project not found")
	}
	return err
}

func validateCreate(in CreateProjectInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return apperror.Validation("name must be between 1 and 255 characters", nil)
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperror.Validation(fmt.Sprintf("invalid status %q", in.Status), nil)
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return apperror.Validation(fmt.Sprintf("invalid priority %q", in.Priority), nil)
	}
	if err := validateProgress(in.Progress); err != nil {
		return err
	}
	if err := validateDecimal("budget", in.Budget); err != nil {
		return err
	}
	if err := validateDecimal("spent", in.Spent); err != nil {
		return err
	}
	return validateDates(in.StartDate, in.EndDate)
}

// buildUpdates converts the set fields of in into column updates.
func buildUpdates(current *models.Project, in UpdateProjectInput) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 255 {
			return nil, apperror.Validation("name must be between 1 and 255 characters", nil)
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperror.Validation(fmt.Sprintf("invalid status %q", *in.Status), nil)
		}
		updates["status"] = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperror.Validation(fmt.Sprintf("invalid priority %q", *in.Priority), nil)
		}
		updates["priority"] = *in.Priority
	}
	if err := validateProgress(in.Progress); err != nil {
		return nil, err
	}
	if in.Progress != nil {
		updates["progress"] = *in.Progress
	}
	if err := validateDecimal("budget", in.Budget); err != nil {
		return nil, err
	}
	if in.Budget != nil {
		updates["budget"] = *in.Budget
	}
	if err := validateDecimal("spent", in.Spent); err != nil {
		return nil, err
	}
	if in.Spent != nil {
		updates["spent"] = *in.Spent
	}

	start, end := current.StartDate, current.EndDate
	if in.StartDate != nil {
		start = in.StartDate
		updates["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		end = in.EndDate
		updates["end_date"] = *in.EndDate
	}
	if err := validateDates(start, end); err != nil {
		return nil, err
	}
	if in.Deadline != nil {
		updates["deadline"] = *in.Deadline
	}
	if in.ClientID != nil {
		updates["client_id"] = *in.ClientID
	}
	if in.ProjectManagerID != nil {
		updates["project_manager_id"] = *in.ProjectManagerID
	}

	return updates, nil
}

func validateProgress(progress *int) error {
	if progress != nil && (*progress < 0 || *progress > 100) {
		return apperror.Validation("progress must be between 0 and 100", nil)
	}
	return nil
}

func validateDecimal(field string, value *string) error {
	if value != nil && !decimalRegex.MatchString(*value) {
		return apperror.Validation(fmt.Sprintf("%s must be a decimal with at most 2 fraction digits", field), nil)
	}
	return nil
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperror.Validation("endDate must not be before startDate", nil)
	}
	return nil
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
