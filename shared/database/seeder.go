package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"projecthub-backend/shared/database/models"
	utils "projecthub-backend/shared/utils/auth"
)

// DemoOrganizationSlug identifies the organization created by SeedDemoData.
const DemoOrganizationSlug = "demo"

var demoMembers = []struct {
	Email string
	Name  string
	Role  string
}{
	{"admin@projecthub.dev", "Ada Admin", "admin"},
	{"manager@projecthub.dev", "Max Manager", "manager"},
	{"member@projecthub.dev", "Mia Member", "member"},
	{"viewer@projecthub.dev", "Vic Viewer", "viewer"},
}

var demoProjects = []struct {
	Name     string
	Status   models.ProjectStatus
	Priority models.ProjectPriority
	Progress int
}{
	{"Site Revamp", models.ProjectStatusPlanning, models.ProjectPriorityHigh, 0},
	{"Mobile App", models.ProjectStatusActive, models.ProjectPriorityMedium, 45},
	{"Data Migration", models.ProjectStatusOnHold, models.ProjectPriorityLow, 10},
}

// SeedResult describes what SeedDemoData created or found.
type SeedResult struct {
	Organization *models.Organization
	Users        map[string]*models.User // keyed by role
	// APIKey is only set when a new key was issued; secrets are never stored.
	APIKey          string
	ProjectsCreated int
}

// SeedDemoData creates a demo organization with one user per role and a few
// projects. Running it again only fills in what is missing.
func SeedDemoData(ctx context.Context, db *gorm.DB) (*SeedResult, error) {
	result := &SeedResult{Users: make(map[string]*models.User, len(demoMembers))}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org := models.Organization{Name: "Demo Organization", Slug: DemoOrganizationSlug}
		if err := tx.Where("slug = ?", org.Slug).FirstOrCreate(&org).Error; err != nil {
			return fmt.Errorf("failed to seed organization: %w", err)
		}
		result.Organization = &org

		for _, m := range demoMembers {
			user := models.User{Email: m.Email, Name: m.Name}
			if err := tx.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", m.Email, err)
			}
			member := models.Member{OrganizationID: org.ID, UserID: user.ID, Role: m.Role}
			if err := tx.Where("organization_id = ? AND user_id = ?", org.ID, user.ID).
				FirstOrCreate(&member).Error; err != nil {
				return fmt.Errorf("failed to seed membership for %s: %w", m.Email, err)
			}
			result.Users[m.Role] = &user
		}

		admin := result.Users["admin"]
		for _, p := range demoProjects {
			var existing models.Project
			err := tx.Where("organization_id = ? AND name = ?", org.ID, p.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up project %s: %w", p.Name, err)
			}
			project := models.Project{
				OrganizationID: org.ID,
				Name:           p.Name,
				Status:         p.Status,
				Priority:       p.Priority,
				Progress:       p.Progress,
				IsActive:       true,
				CreatedBy:      admin.ID,
			}
			if err := tx.Create(&project).Error; err != nil {
				return fmt.Errorf("failed to seed project %s: %w", p.Name, err)
			}
			result.ProjectsCreated++
		}

		var keyCount int64
		if err := tx.Model(&models.APIKey{}).
			Where("organization_id = ? AND revoked_at IS NULL", org.ID).
			Count(&keyCount).Error; err != nil {
			return fmt.Errorf("failed to count api keys: %w", err)
		}
		if keyCount > 0 {
			return nil
		}

		key, prefix, hash, err := utils.GenerateAPIKey()
		if err != nil {
			return err
		}
		if err := tx.Create(&models.APIKey{
			OrganizationID: org.ID,
			UserID:         admin.ID,
			Name:           "Demo key",
			Prefix:         prefix,
			KeyHash:        hash,
		}).Error; err != nil {
			return fmt.Errorf("failed to seed api key: %w", err)
		}
		result.APIKey = key
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Demo data seeded",
		slog.String("organization", result.Organization.Slug),
		slog.Int("projects_created", result.ProjectsCreated),
		slog.Bool("api_key_issued", result.APIKey != ""))
	return result, nil
}
