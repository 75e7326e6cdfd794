package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"projecthub-backend/shared/database/models"
)

type AuditSaver interface {
	Save(ctx context.Context, entry *models.AuditLog) error
}

// AuditRecorder writes one audit row per mutating request from a background
// worker. Entries are dropped when the queue is full.
type AuditRecorder struct {
	store  AuditSaver
	queue  chan *models.AuditLog
	logger *slog.Logger
}

func NewAuditRecorder(store AuditSaver, queueSize int, logger *slog.Logger) *AuditRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditRecorder{
		store:  store,
		queue:  make(chan *models.AuditLog, queueSize),
		logger: logger,
	}
}

// Run saves queued entries until ctx is done, then drains what is left.
func (r *AuditRecorder) Run(ctx context.Context) {
	for {
		select {
		case entry := <-r.queue:
			r.save(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-r.queue:
					r.save(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *AuditRecorder) save(entry *models.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Save(ctx, entry); err != nil {
		r.logger.Error("Failed to save audit log",
			slog.String("request_id", entry.RequestID), slog.Any("error", err))
	}
}

// Middleware records non-GET requests after the handler has run.
func (r *AuditRecorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		entry := &models.AuditLog{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Duration:   time.Since(start).Milliseconds(),
			RequestID:  RequestIDFrom(c),
		}
		if session, ok := SessionFrom(c); ok {
			userID := session.UserID
			entry.UserID = &userID
			if session.OrganizationID != uuid.Nil {
				orgID := session.OrganizationID
				entry.OrganizationID = &orgID
			}
		}

		select {
		case r.queue <- entry:
		default:
			LoggerFrom(c).Warn("Audit queue full, dropping entry", slog.String("path", entry.Path))
		}
	}
}
