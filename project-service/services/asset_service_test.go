package services_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub-backend/project-service/services"
	"projecthub-backend/shared/database"
	"projecthub-backend/shared/testhelpers"
	"projecthub-backend/shared/utils/apperror"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) PutObject(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryStorage) GetObject(_ context.Context, key string) (io.ReadCloser, services.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, services.ObjectInfo{}, services.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), services.ObjectInfo{Size: int64(len(data)), ContentType: m.types[key]}, nil
}

func (m *memoryStorage) RemoveObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) Ping(context.Context) error { return nil }

func (m *memoryStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func newAssetService(t *testing.T, storage services.ObjectStorage) (*services.AssetService, services.Actor, services.Actor) {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	org := testhelpers.CreateOrganization(t, db, "Acme")
	owner := testhelpers.CreateUser(t, db)
	stranger := testhelpers.CreateUser(t, db)

	service := services.NewAssetService(services.AssetServiceDeps{
		Store:         database.NewAssetStore(db),
		Storage:       storage,
		PublicSiteURL: "http://localhost:8080/",
		MaxFileSize:   1 << 10,
	})
	return service,
		services.Actor{UserID: owner.ID, OrganizationID: org.ID},
		services.Actor{UserID: stranger.ID, OrganizationID: org.ID}
}

func TestAssetUploadAndOpen(t *testing.T) {
	storage := newMemoryStorage()
	service, owner, _ := newAssetService(t, storage)
	ctx := context.Background()

	result, err := service.Upload(ctx, owner, "My Logo.png", "image/png", 4, strings.NewReader("\x89PNG"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Key, "-My-Logo.png"), result.Key)
	assert.Equal(t, "http://localhost:8080/api/assets/raw/"+result.Key, result.URL)

	body, info, err := service.Open(ctx, result.Key)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data))
	assert.Equal(t, "image/png", info.ContentType)

	_, _, err = service.Open(ctx, "missing")
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	_, _, err = service.Open(ctx, "../etc/passwd")
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestAssetUploadLimits(t *testing.T) {
	service, owner, _ := newAssetService(t, newMemoryStorage())
	ctx := context.Background()

	_, err := service.Upload(ctx, owner, "big.bin", "", 2<<10, bytes.NewReader(make([]byte, 2<<10)))
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))

	_, err = service.Upload(ctx, owner, "empty.bin", "", 0, bytes.NewReader(nil))
	assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))

	unconfigured, owner, _ := newAssetService(t, nil)
	_, err = unconfigured.Upload(ctx, owner, "a.txt", "", 1, strings.NewReader("a"))
	assert.Equal(t, apperror.CodeUnavailable, apperror.CodeOf(err))
}

func TestAssetListFilters(t *testing.T) {
	service, owner, stranger := newAssetService(t, nil)
	ctx := context.Background()

	for _, in := range []services.CreateAssetInput{
		{Name: "Hero banner", URL: "http://cdn/hero.png", Tags: []string{"Marketing", "hero"}},
		{Name: "Team photo", URL: "http://cdn/team.png", Tags: []string{"people"}},
		{Name: "Logo", URL: "http://cdn/logo.png", Tags: []string{"brand", "brand", " "}},
	} {
		_, err := service.Create(ctx, owner, in)
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, stranger, services.CreateAssetInput{Name: "Hero private", URL: "http://cdn/x.png"})
	require.NoError(t, err)

	all, err := service.List(ctx, owner, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := service.List(ctx, owner, "HERO", "")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Hero banner", byName[0].Name)

	byTagSearch, err := service.List(ctx, owner, "market", "")
	require.NoError(t, err)
	assert.Len(t, byTagSearch, 1)

	byTag, err := service.List(ctx, owner, "", "brand")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, []string{"brand"}, []string(byTag[0].Tags))

	exactTag, err := service.List(ctx, owner, "", "Brand")
	require.NoError(t, err)
	assert.Empty(t, exactTag)
}

func TestAssetDeleteRemovesObject(t *testing.T) {
	storage := newMemoryStorage()
	service, owner, stranger := newAssetService(t, storage)
	ctx := context.Background()

	upload, err := service.Upload(ctx, owner, "doc.pdf", "application/pdf", 3, strings.NewReader("pdf"))
	require.NoError(t, err)
	asset, err := service.Create(ctx, owner, services.CreateAssetInput{Name: "doc.pdf", URL: upload.URL, ObjectKey: upload.Key})
	require.NoError(t, err)

	err = service.Delete(ctx, stranger, asset.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	assert.True(t, storage.has(upload.Key))

	require.NoError(t, service.Delete(ctx, owner, asset.ID))
	assert.False(t, storage.has(upload.Key))

	err = service.Delete(ctx, owner, asset.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestAssetBatchDeleteCountsOwnedOnly(t *testing.T) {
	service, owner, stranger := newAssetService(t, nil)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		asset, err := service.Create(ctx, owner, services.CreateAssetInput{Name: "a", URL: "http://cdn/a"})
		require.NoError(t, err)
		ids = append(ids, asset.ID)
	}
	foreign, err := service.Create(ctx, stranger, services.CreateAssetInput{Name: "b", URL: "http://cdn/b"})
	require.NoError(t, err)

	count, err := service.BatchDelete(ctx, owner, append(ids[:2], foreign.ID, uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	remaining, err := service.List(ctx, owner, "", "")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestAssetUpdateTags(t *testing.T) {
	service, owner, stranger := newAssetService(t, nil)
	ctx := context.Background()

	asset, err := service.Create(ctx, owner, services.CreateAssetInput{Name: "a", URL: "http://cdn/a"})
	require.NoError(t, err)
	assert.Empty(t, asset.Tags)

	updated, err := service.UpdateTags(ctx, owner, asset.ID, []string{"x", "y", "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, []string(updated.Tags))

	_, err = service.UpdateTags(ctx, stranger, asset.ID, []string{"z"})
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestObjectKeyFor(t *testing.T) {
	key := services.ObjectKeyFor(`C:\Users\me\Quarterly report.pdf`)
	assert.True(t, strings.HasSuffix(key, "-Quarterly-report.pdf"), key)
	assert.NotContains(t, key, "/")

	assert.True(t, strings.HasSuffix(services.ObjectKeyFor("../../"), "-file"))
}
