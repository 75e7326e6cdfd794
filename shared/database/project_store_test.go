package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub-backend/shared/database"
	"projecthub-backend/shared/database/models"
	"projecthub-backend/shared/testhelpers"
)

func TestProjectStoreListScopesToOrganizationAndActive(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store := database.NewProjectStore(db)
	ctx := context.Background()

	orgA := testhelpers.CreateOrganization(t, db, "Org A")
	orgB := testhelpers.CreateOrganization(t, db, "Org B")
	user := testhelpers.CreateUser(t, db)

	testhelpers.CreateProject(t, db, orgA.ID, user.ID, func(p *models.Project) { p.Name = "A1" })
	testhelpers.CreateProject(t, db, orgA.ID, user.ID, func(p *models.Project) {
		p.Name = "A2"
		p.IsActive = false
	})
	testhelpers.CreateProject(t, db, orgB.ID, user.ID, func(p *models.Project) { p.Name = "B1" })

	projects, err := store.List(ctx, orgA.ID, database.ProjectFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "A1", projects[0].Name)

	total, err := store.Count(ctx, orgA.ID, database.ProjectFilter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestProjectStoreListFiltersAndPaginates(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store := database.NewProjectStore(db)
	ctx := context.Background()

	org := testhelpers.CreateOrganization(t, db, "Acme")
	user := testhelpers.CreateUser(t, db)

	for _, name := range []string{"Site Revamp", "Site Audit", "Mobile App"} {
		name := name
		testhelpers.CreateProject(t, db, org.ID, user.ID, func(p *models.Project) {
			p.Name = name
			p.Status = models.ProjectStatusActive
		})
	}
	testhelpers.CreateProject(t, db, org.ID, user.ID, func(p *models.Project) { p.Name = "Site Archive" })

	filter := database.ProjectFilter{Search: "site", Status: "active", Limit: 1}
	page, err := store.List(ctx, org.ID, filter)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	total, err := store.Count(ctx, org.ID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	filter.Offset = 5
	page, err = store.List(ctx, org.ID, filter)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestProjectStoreListOrdersNewestFirst(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store := database.NewProjectStore(db)
	ctx := context.Background()

	org := testhelpers.CreateOrganization(t, db, "Acme")
	user := testhelpers.CreateUser(t, db)

	newer := testhelpers.CreateProject(t, db, org.ID, user.ID, func(p *models.Project) {
		p.Name = "Newer"
		p.CreatedAt = time.Now().Add(-time.Minute)
	})
	older := testhelpers.CreateProject(t, db, org.ID, user.ID, func(p *models.Project) {
		p.Name = "Older"
		p.CreatedAt = time.Now().Add(-24 * time.Hour)
	})

	projects, err := store.List(ctx, org.ID, database.ProjectFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, newer.ID, projects[0].ID)
	assert.Equal(t, older.ID, projects[1].ID)

	projects, err = store.List(ctx, org.ID, database.ProjectFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, older.ID, projects[0].ID)
}

func TestProjectStoreReadsMoneyWithTwoDecimals(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store := database.NewProjectStore(db)
	ctx := context.Background()

	org := testhelpers.CreateOrganization(t, db, "Acme")
	user := testhelpers.CreateUser(t, db)

	budget, spent := "1000.5", "250"
	project := &models.Project{
		OrganizationID: org.ID,
		Name:           "Budgeted",
		Budget:         &budget,
		Spent:          &spent,
		IsActive:       true,
		CreatedBy:      user.ID,
	}
	require.NoError(t, store.Create(ctx, project))
	assert.Equal(t, "1000.50", *project.Budget)

	got, err := store.Get(ctx, org.ID, project.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Budget)
	assert.Equal(t, "1000.50", *got.Budget)
	assert.Equal(t, "250.00", *got.Spent)

	updated, err := store.Update(ctx, org.ID, project.ID, map[string]interface{}{"spent": "99.9"})
	require.NoError(t, err)
	assert.Equal(t, "99.90", *updated.Spent)

	listed, err := store.List(ctx, org.ID, database.ProjectFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "1000.50", *listed[0].Budget)
}

func TestProjectStoreGetMissingOrForeignReturnsNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store := database.NewProjectStore(db)
	ctx := context.Background()

	orgA := testhelpers.CreateOrganization(t, db, "Org A")
	orgB := testhelpers.CreateOrganization(t, db, "Org B")
	user := testhelpers.CreateUser(t, db)
	project := testhelpers.CreateProject(t, db, orgA.ID, user.ID, nil)

	_, err := store.Get(ctx, orgA.ID, uuid.New())
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = store.Get(ctx, orgB.ID, project.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	got, err := store.Get(ctx, orgA.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
}

func TestProjectStoreUpdateIgnoresOrganizationID(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store := database.NewProjectStore(db)
	ctx := context.Background()

	org := testhelpers.CreateOrganization(t, db, "Acme")
	other := testhelpers.CreateOrganization(t, db, "Other")
	user := testhelpers.CreateUser(t, db)
	project := testhelpers.CreateProject(t, db, org.ID, user.ID, nil)

	updated, err := store.Update(ctx, org.ID, project.ID, map[string]interface{}{
		"name":            "Renamed",
		"progress":        40,
		"organization_id": other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 40, updated.Progress)
	assert.Equal(t, org.ID, updated.OrganizationID)

	_, err = store.Update(ctx, other.ID, project.ID, map[string]interface{}{"name": "Hijack"})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestProjectStoreSoftDeleteKeepsRow(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	store := database.NewProjectStore(db)
	ctx := context.Background()

	org := testhelpers.CreateOrganization(t, db, "Acme")
	user := testhelpers.CreateUser(t, db)
	project := testhelpers.CreateProject(t, db, org.ID, user.ID, nil)

	require.NoError(t, store.SoftDelete(ctx, org.ID, project.ID))

	var row models.Project
	require.NoError(t, db.First(&row, "id = ?", project.ID).Error)
	assert.False(t, row.IsActive)

	_, err := store.Get(ctx, org.ID, project.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	assert.ErrorIs(t, store.SoftDelete(ctx, org.ID, project.ID), database.ErrNotFound)
}
