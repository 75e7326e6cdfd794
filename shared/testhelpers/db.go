// Package testhelpers provides fixtures shared by package tests.
package testhelpers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"projecthub-backend/shared/database"
	"projecthub-backend/shared/database/models"
)

// NewTestDB opens an isolated in-memory SQLite database with all tables migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateOrganization inserts an organization with a unique slug.
func CreateOrganization(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		Name: name,
		Slug: fmt.Sprintf("test-org-%s", uuid.NewString()[:8]),
		Plan: "free",
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

// CreateUser inserts a user with a unique email.
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email: fmt.Sprintf("test-%s@example.com", uuid.NewString()[:8]),
		Name:  "Test User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// AddMember gives user the role in org.
func AddMember(t *testing.T, db *gorm.DB, orgID, userID uuid.UUID, role string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Member{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}).Error)
}

// CreateProject inserts an active project directly, bypassing the service layer.
func CreateProject(t *testing.T, db *gorm.DB, orgID, userID uuid.UUID, mutate func(*models.Project)) *models.Project {
	t.Helper()
	project := &models.Project{
		OrganizationID: orgID,
		Name:           "Test Project",
		Status:         models.ProjectStatusPlanning,
		Priority:       models.ProjectPriorityMedium,
		IsActive:       true,
		CreatedBy:      userID,
	}
	if mutate != nil {
		mutate(project)
	}
	active := project.IsActive
	require.NoError(t, db.Create(project).Error)
	// is_active has a column default, so a false value is skipped on insert.
	if !active {
		require.NoError(t, db.Model(project).Update("is_active", false).Error)
		project.IsActive = false
	}
	return project
}
