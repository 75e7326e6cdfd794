package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"projecthub-backend/shared/config"
	"projecthub-backend/shared/utils/apperror"
)

// RateLimit - Rate limit info for one client key
type RateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimitConfig - Rate limiter configuration
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewRateLimitConfig - Creates a RateLimitConfig from the loaded configuration
func NewRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests:   cfg.RateLimitMaxRequests,
		TimeWindow:    time.Duration(cfg.RateLimitTimeWindowSeconds) * time.Second,
		BlockDuration: time.Duration(cfg.RateLimitBlockDurationMinutes) * time.Minute,
	}
}

// RateLimiter is a fixed-window limiter. A client that exceeds the window is
// blocked for BlockDuration.
type RateLimiter struct {
	store  map[string]*RateLimit
	mutex  sync.Mutex
	config RateLimitConfig
	now    func() time.Time
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		store:  make(map[string]*RateLimit),
		config: config,
		now:    time.Now,
	}
}

// StartCleanup removes idle entries every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, limit := range rl.store {
		if limit.Blocked && now.Before(limit.BlockUntil) {
			continue
		}
		if now.Sub(limit.LastAccess) > rl.config.TimeWindow {
			delete(rl.store, key)
		}
	}
}

// isAllowed - Checks if the request is allowed and returns the wait time when it is not
func (rl *RateLimiter) isAllowed(key string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	limit, exists := rl.store[key]

	if !exists {
		rl.store[key] = &RateLimit{
			Count:      1,
			ResetAt:    now.Add(rl.config.TimeWindow),
			LastAccess: now,
		}
		return true, 0
	}

	limit.LastAccess = now

	if limit.Blocked {
		if now.After(limit.BlockUntil) {
			limit.Blocked = false
			limit.Count = 1
			limit.ResetAt = now.Add(rl.config.TimeWindow)
			return true, 0
		}
		return false, limit.BlockUntil.Sub(now)
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(rl.config.TimeWindow)
		return true, 0
	}

	if limit.Count >= rl.config.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(rl.config.BlockDuration)
		return false, rl.config.BlockDuration
	}

	limit.Count++
	return true, 0
}

// Middleware limits requests per client IP. A non-positive MaxRequests disables it.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.MaxRequests <= 0 {
			c.Next()
			return
		}

		allowed, retryAfter := rl.isAllowed(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			AbortWithError(c, apperror.RateLimited("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}
