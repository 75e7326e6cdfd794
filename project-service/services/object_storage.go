package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"projecthub-backend/shared/config"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Size        int64
	ContentType string
	ETag        string
}

// ObjectStorage stores asset bytes under opaque keys.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	RemoveObject(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// MinIOService is the MinIO-backed ObjectStorage.
type MinIOService struct {
	client     *minio.Client
	bucketName string
	logger     *slog.Logger
}

func NewMinIOService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MinIOService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %w", err)
	}
	endpoint := parsedURL.Host
	if endpoint == "" {
		endpoint = cfg.MinIOServerURL
	}

	logger.Info("Connecting to MinIO", slog.String("endpoint", endpoint), slog.Bool("ssl", cfg.MinIOUseSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	service := &MinIOService{
		client:     client,
		bucketName: cfg.MinIOBucketName,
		logger:     logger,
	}

	if err := service.initializeBucket(ctx); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *MinIOService) initializeBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.Info("MinIO bucket created", slog.String("bucket", s.bucketName))
	}
	return nil
}

func (s *MinIOService) PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	s.logger.Debug("Object uploaded", slog.String("key", key), slog.Int64("size", size))
	return nil
}

// GetObject opens key for reading. It returns ErrObjectNotFound for missing keys.
func (s *MinIOService) GetObject(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to open object: %w", err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}

	return object, ObjectInfo{Size: stat.Size, ContentType: stat.ContentType, ETag: stat.ETag}, nil
}

func (s *MinIOService) RemoveObject(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

func (s *MinIOService) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucketName)
	return err
}
