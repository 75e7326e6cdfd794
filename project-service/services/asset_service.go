package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"projecthub-backend/shared/database"
	"projecthub-backend/shared/database/models"
	"projecthub-backend/shared/utils/apperror"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type AssetStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	UpdateTags(ctx context.Context, userID, id uuid.UUID, tags []string) (*models.Asset, error)
	Delete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Asset, error)
}

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type CreateAssetInput struct {
	Name      string   `json:"name" binding:"required,max=255"`
	URL       string   `json:"url" binding:"required,url"`
	ObjectKey string   `json:"objectKey"`
	Tags      []string `json:"tags"`
}

type AssetServiceDeps struct {
	Store         AssetStore
	Storage       ObjectStorage
	PublicSiteURL string
	MaxFileSize   int64
	Logger        *slog.Logger
}

// AssetService manages a user's uploaded files and their tag metadata.
// Storage may be nil, in which case uploads and raw reads are unavailable.
type AssetService struct {
	store         AssetStore
	storage       ObjectStorage
	publicSiteURL string
	maxFileSize   int64
	logger        *slog.Logger
}

func NewAssetService(deps AssetServiceDeps) *AssetService {
	s := &AssetService{
		store:         deps.Store,
		storage:       deps.Storage,
		publicSiteURL: strings.TrimRight(deps.PublicSiteURL, "/"),
		maxFileSize:   deps.MaxFileSize,
		logger:        deps.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Upload stores r under a fresh key and returns the public URL that serves it.
func (s *AssetService) Upload(ctx context.Context, actor Actor, fileName, contentType string, size int64, r io.Reader) (*UploadResult, error) {
	if s.storage == nil {
		return nil, apperror.Unavailable("Object storage is not configured")
	}
	if size <= 0 {
		return nil, apperror.BadRequest("No file uploaded")
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return nil, apperror.Validation(fmt.Sprintf("file exceeds the %d byte limit", s.maxFileSize), nil)
	}

	key := ObjectKeyFor(fileName)
	if err := s.storage.PutObject(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Asset uploaded",
		slog.String("user_id", actor.UserID.String()), slog.String("key", key), slog.Int64("size", size))

	return &UploadResult{URL: s.publicSiteURL + "/api/assets/raw/" + key, Key: key}, nil
}

// Open streams a stored object.
func (s *AssetService) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if s.storage == nil {
		return nil, ObjectInfo{}, apperror.NotFound("Asset not found")
	}
	if key == "" || strings.ContainsAny(key, "/\\") {
		return nil, ObjectInfo{}, apperror.NotFound("Asset not found")
	}

	body, info, err := s.storage.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ObjectInfo{}, apperror.NotFound("Asset not found")
		}
		return nil, ObjectInfo{}, err
	}
	return body, info, nil
}

// List returns the caller's assets, newest first. search matches the name or
// any tag case-insensitively and takes precedence over tag, which must match exactly.
func (s *AssetService) List(ctx context.Context, actor Actor, search, tag string) ([]models.Asset, error) {
	assets, err := s.store.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search != "" {
		return filterAssets(assets, func(a models.Asset) bool {
			if strings.Contains(strings.ToLower(a.Name), search) {
				return true
			}
			for _, t := range a.Tags {
				if strings.Contains(strings.ToLower(t), search) {
					return true
				}
			}
			return false
		}), nil
	}

	if tag != "" {
		return filterAssets(assets, func(a models.Asset) bool {
			for _, t := range a.Tags {
				if t == tag {
					return true
				}
			}
			return false
		}), nil
	}

	return assets, nil
}

func (s *AssetService) Create(ctx context.Context, actor Actor, in CreateAssetInput) (*models.Asset, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("name is required", nil)
	}

	asset := &models.Asset{
		UserID:    actor.UserID,
		Name:      name,
		URL:       in.URL,
		ObjectKey: in.ObjectKey,
		Tags:      normalizeTags(in.Tags),
	}
	if actor.OrganizationID != uuid.Nil {
		orgID := actor.OrganizationID
		asset.OrganizationID = &orgID
	}

	if err := s.store.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *AssetService) UpdateTags(ctx context.Context, actor Actor, id uuid.UUID, tags []string) (*models.Asset, error) {
	asset, err := s.store.UpdateTags(ctx, actor.UserID, id, normalizeTags(tags))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("Asset not found")
		}
		return nil, err
	}
	return asset, nil
}

func (s *AssetService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	deleted, err := s.store.Delete(ctx, actor.UserID, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return apperror.NotFound("Asset not found")
	}
	s.removeObjects(ctx, deleted)
	return nil
}

// BatchDelete removes the listed assets the caller owns and reports how many were deleted.
func (s *AssetService) BatchDelete(ctx context.Context, actor Actor, ids []uuid.UUID) (int, error) {
	deleted, err := s.store.Delete(ctx, actor.UserID, ids)
	if err != nil {
		return 0, err
	}
	s.removeObjects(ctx, deleted)
	return len(deleted), nil
}

// removeObjects deletes stored bytes after the metadata is gone. Failures leave
// orphaned objects and are only logged.
func (s *AssetService) removeObjects(ctx context.Context, assets []models.Asset) {
	if s.storage == nil {
		return
	}
	for _, asset := range assets {
		if asset.ObjectKey == "" {
			continue
		}
		if err := s.storage.RemoveObject(ctx, asset.ObjectKey); err != nil {
			s.logger.WarnContext(ctx, "Failed to remove asset object",
				slog.String("key", asset.ObjectKey), slog.Any("error", err))
		}
	}
}

// ObjectKeyFor builds a unique single-segment key that keeps a readable file name.
func ObjectKeyFor(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "file"
	}
	return uuid.NewString() + "-" + base
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func filterAssets(assets []models.Asset, keep func(models.Asset) bool) []models.Asset {
	out := make([]models.Asset, 0, len(assets))
	for _, asset := range assets {
		if keep(asset) {
			out = append(out, asset)
		}
	}
	return out
}
