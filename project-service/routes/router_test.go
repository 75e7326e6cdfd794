package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "projecthub-backend/docs"
	"projecthub-backend/project-service/handlers"
	"projecthub-backend/project-service/middleware"
	"projecthub-backend/project-service/routes"
	"projecthub-backend/project-service/services"
	"projecthub-backend/shared/config"
	"projecthub-backend/shared/database"
	"projecthub-backend/shared/database/models"
	"projecthub-backend/shared/testhelpers"
	"projecthub-backend/shared/utils/cache"
	"projecthub-backend/shared/utils/permission"
	utils "projecthub-backend/shared/utils/auth"
)

const jwtSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type blobStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (b *blobStorage) PutObject(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.types[key] = contentType
	return nil
}

func (b *blobStorage) GetObject(_ context.Context, key string) (io.ReadCloser, services.ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, services.ObjectInfo{}, services.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), services.ObjectInfo{
		Size:        int64(len(data)),
		ContentType: b.types[key],
		ETag:        "etag-" + key[:8],
	}, nil
}

func (b *blobStorage) RemoveObject(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *blobStorage) Ping(context.Context) error { return nil }

type apiFixture struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	org     *models.Organization
	tokens  map[permission.Role]string
	users   map[permission.Role]*models.User
	storage *blobStorage
}

func newAPIFixture(t *testing.T, withStorage bool) *apiFixture {
	t.Helper()

	db := testhelpers.NewTestDB(t)
	org := testhelpers.CreateOrganization(t, db, "Acme")

	f := &apiFixture{
		t:      t,
		db:     db,
		org:    org,
		tokens: map[permission.Role]string{},
		users:  map[permission.Role]*models.User{},
	}
	for _, role := range []permission.Role{permission.RoleAdmin, permission.RoleViewer} {
		user := testhelpers.CreateUser(t, db)
		testhelpers.AddMember(t, db, org.ID, user.ID, string(role))
		token, err := utils.GenerateJWT(jwtSecret, time.Hour, user.ID, user.Email, org.ID)
		require.NoError(t, err)
		f.users[role] = user
		f.tokens[role] = token
	}

	cfg := &config.Config{
		Environment:    "test",
		ServiceName:    "projects-api",
		Version:        "test",
		AllowedOrigins: []string{"http://localhost:5173"},
		PublicSiteURL:  "http://localhost:8080",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	memCache := cache.NewMemoryCache()
	t.Cleanup(func() { _ = memCache.Close() })

	var storage services.ObjectStorage
	if withStorage {
		f.storage = &blobStorage{objects: map[string][]byte{}, types: map[string]string{}}
		storage = f.storage
	}

	members := database.NewMemberStore(db)
	resolver := permission.NewResolver(members)
	hub := services.NewEventHub(cfg.AllowedOrigins, logger)

	projectService := services.NewProjectService(services.ProjectServiceDeps{
		Store:      database.NewProjectStore(db),
		Cache:      memCache,
		Authorizer: resolver,
		Events:     hub,
		Logger:     logger,
	})
	assetService := services.NewAssetService(services.AssetServiceDeps{
		Store:         database.NewAssetStore(db),
		Storage:       storage,
		PublicSiteURL: cfg.PublicSiteURL,
		MaxFileSize:   1 << 20,
		Logger:        logger,
	})

	f.router = routes.NewRouter(routes.Dependencies{
		Config:        cfg,
		Logger:        logger,
		Authenticator: middleware.NewAuthenticator(jwtSecret, "session_token", database.NewAPIKeyStore(db)),
		Projects:      handlers.NewProjectHandler(projectService),
		Organizations: handlers.NewOrganizationHandler(services.NewOrganizationService(database.NewOrganizationStore(db), members, resolver)),
		Assets:        handlers.NewAssetHandler(assetService),
		Events:        handlers.NewWebSocketHandler(hub),
		Health: handlers.NewHealthHandler(cfg.ServiceName, cfg.Version, map[string]handlers.HealthCheck{
			"database": func(context.Context) error { return database.Ping(db) },
			"cache":    memCache.Ping,
		}),
	})
	return f
}

func (f *apiFixture) do(method, path string, role permission.Role, body interface{}) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := f.tokens[role]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestHealthEndpoints(t *testing.T) {
	f := newAPIFixture(t, false)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "projects-api", health.Service)
	assert.NotEmpty(t, health.Timestamp)

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, map[string]string{"database": "healthy", "cache": "healthy"}, health.Checks)
}

func TestSwaggerIsServedOutsideProduction(t *testing.T) {
	f := newAPIFixture(t, false)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ProjectHub API")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	f := newAPIFixture(t, false)

	for _, path := range []string{"/api/projects", "/api/organization", "/api/assets", "/ws/projects"} {
		w, env := f.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		assert.NotEmpty(t, env.Meta.RequestID)
	}
}

func TestProjectLifecycle(t *testing.T) {
	f := newAPIFixture(t, false)
	admin := permission.RoleAdmin

	w, env := f.do(http.MethodPost, "/api/projects", admin, map[string]interface{}{
		"name":   "Site Revamp",
		"status": "planning",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var created models.Project
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, f.org.ID, created.OrganizationID)
	assert.Equal(t, f.users[admin].ID, created.CreatedBy)
	assert.Equal(t, models.ProjectStatusPlanning, created.Status)
	assert.True(t, created.IsActive)

	w, env = f.do(http.MethodGet, "/api/projects?search=revamp&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list services.ProjectList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, created.ID, list.Projects[0].ID)

	w, env = f.do(http.MethodPut, "/api/projects/"+created.ID.String(), admin, map[string]interface{}{
		"status":   "active",
		"progress": 40,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Project
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.ProjectStatusActive, updated.Status)
	assert.Equal(t, 40, updated.Progress)

	w, env = f.do(http.MethodDelete, "/api/projects/"+created.ID.String(), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, string(env.Data))

	w, env = f.do(http.MethodGet, "/api/projects/"+created.ID.String(), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, env = f.do(http.MethodGet, "/api/projects", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Zero(t, list.Total)
	assert.Empty(t, list.Projects)

	var stored models.Project
	require.NoError(t, f.db.First(&stored, "id = ?", created.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestViewerCannotWrite(t *testing.T) {
	f := newAPIFixture(t, false)

	w, env := f.do(http.MethodPost, "/api/projects", permission.RoleViewer, map[string]interface{}{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", env.Error.Code)

	w, _ = f.do(http.MethodGet, "/api/projects", permission.RoleViewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemovedMemberFallsBackToViewer(t *testing.T) {
	f := newAPIFixture(t, false)

	removed := permission.Role("removed")
	user := testhelpers.CreateUser(t, f.db)
	token, err := utils.GenerateJWT(jwtSecret, time.Hour, user.ID, user.Email, f.org.ID)
	require.NoError(t, err)
	f.tokens[removed] = token

	w, _ := f.do(http.MethodGet, "/api/projects", removed, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := f.do(http.MethodPost, "/api/projects", removed, map[string]interface{}{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", env.Error.Code)
}

func TestProjectRequestValidation(t *testing.T) {
	f := newAPIFixture(t, false)
	admin := permission.RoleAdmin

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"limit too large", http.MethodGet, "/api/projects?limit=500", nil},
		{"limit not a number", http.MethodGet, "/api/projects?limit=abc", nil},
		{"unknown status filter", http.MethodGet, "/api/projects?status=archived", nil},
		{"malformed id", http.MethodGet, "/api/projects/not-a-uuid", nil},
		{"missing name", http.MethodPost, "/api/projects", map[string]interface{}{"status": "planning"}},
		{"progress out of range", http.MethodPost, "/api/projects", map[string]interface{}{"name": "P", "progress": 120}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := f.do(tc.method, tc.path, admin, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}
}

func TestOrganizationSettings(t *testing.T) {
	f := newAPIFixture(t, false)

	w, env := f.do(http.MethodGet, "/api/organization", permission.RoleViewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", env.Error.Code)

	w, env = f.do(http.MethodGet, "/api/organization", permission.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var org models.Organization
	require.NoError(t, json.Unmarshal(env.Data, &org))
	assert.Equal(t, f.org.ID, org.ID)

	w, _ = f.do(http.MethodPut, "/api/organization", permission.RoleViewer, map[string]string{"name": "Renamed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = f.do(http.MethodPut, "/api/organization", permission.RoleAdmin, map[string]string{"slug": "acme-hq"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &org))
	assert.Equal(t, "acme-hq", org.Slug)

	w, env = f.do(http.MethodGet, "/api/organization/members", permission.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var members []services.MemberView
	require.NoError(t, json.Unmarshal(env.Data, &members))
	assert.Len(t, members, 2)
}

func uploadFile(t *testing.T, f *apiFixture, name string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.tokens[permission.RoleAdmin])

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestAssetWorkflow(t *testing.T) {
	f := newAPIFixture(t, true)
	admin := permission.RoleAdmin

	w, env := uploadFile(t, f, "logo.png", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var uploaded services.UploadResult
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	assert.True(t, strings.HasSuffix(uploaded.Key, "-logo.png"))
	assert.Equal(t, "http://localhost:8080/api/assets/raw/"+uploaded.Key, uploaded.URL)

	// raw objects are public
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets/raw/"+uploaded.Key, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("ETag"))

	w, env = f.do(http.MethodPost, "/api/assets", admin, map[string]interface{}{
		"name":      "Logo",
		"url":       uploaded.URL,
		"objectKey": uploaded.Key,
		"tags":      []string{"brand"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var asset models.Asset
	require.NoError(t, json.Unmarshal(env.Data, &asset))

	w, env = f.do(http.MethodPatch, "/api/assets/"+asset.ID.String(), admin, map[string]interface{}{
		"tags": []string{"brand", "hero"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = f.do(http.MethodGet, "/api/assets?tag=hero", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var assets []models.Asset
	require.NoError(t, json.Unmarshal(env.Data, &assets))
	require.Len(t, assets, 1)
	assert.Equal(t, asset.ID, assets[0].ID)

	w, env = f.do(http.MethodGet, "/api/assets", permission.RoleViewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &assets))
	assert.Empty(t, assets)

	w, env = f.do(http.MethodPost, "/api/assets/batch-delete", admin, map[string]interface{}{
		"ids": []uuid.UUID{asset.ID, uuid.New()},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/assets/raw/"+uploaded.Key, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadWithoutStorageIsUnavailable(t *testing.T) {
	f := newAPIFixture(t, false)

	w, env := uploadFile(t, f, "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
}
