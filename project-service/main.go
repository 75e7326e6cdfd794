package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	_ "projecthub-backend/docs"
	"projecthub-backend/project-service/handlers"
	"projecthub-backend/project-service/middleware"
	"projecthub-backend/project-service/routes"
	"projecthub-backend/project-service/services"
	"projecthub-backend/shared/config"
	"projecthub-backend/shared/database"
	"projecthub-backend/shared/utils/cache"
	"projecthub-backend/shared/utils/permission"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Service stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.LoadConfig()
	logger = logger.With(slog.String("service", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.CloseDatabase(db)

	projectCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer projectCache.Close()

	var storage services.ObjectStorage
	if cfg.MinIOServerURL != "" {
		minio, err := services.NewMinIOService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		storage = minio
	} else {
		logger.Warn("MinIO is not configured, asset uploads are disabled")
	}

	hub := services.NewEventHub(cfg.AllowedOrigins, logger)
	go hub.Run(ctx)

	auditRecorder := middleware.NewAuditRecorder(database.NewAuditStore(db), 1000, logger)
	go auditRecorder.Run(ctx)

	rateLimiter := middleware.NewRateLimiter(middleware.NewRateLimitConfig(cfg))
	go rateLimiter.StartCleanup(ctx, 5*time.Minute)

	memberStore := database.NewMemberStore(db)
	resolver := permission.NewResolver(memberStore)

	projectService := services.NewProjectService(services.ProjectServiceDeps{
		Store:      database.NewProjectStore(db),
		Cache:      projectCache,
		Authorizer: resolver,
		Events:     hub,
		TTL:        cfg.ProjectCacheTTL,
		Logger:     logger,
	})
	organizationService := services.NewOrganizationService(database.NewOrganizationStore(db), memberStore, resolver)
	assetService := services.NewAssetService(services.AssetServiceDeps{
		Store:         database.NewAssetStore(db),
		Storage:       storage,
		PublicSiteURL: cfg.PublicSiteURL,
		MaxFileSize:   cfg.AssetMaxFileSize,
		Logger:        logger,
	})

	router := routes.NewRouter(routes.Dependencies{
		Config:        cfg,
		Logger:        logger,
		Authenticator: middleware.NewAuthenticator(cfg.JWTSecret, cfg.SessionCookie, database.NewAPIKeyStore(db)),
		RateLimiter:   rateLimiter,
		AuditRecorder: auditRecorder,
		Projects:      handlers.NewProjectHandler(projectService),
		Organizations: handlers.NewOrganizationHandler(organizationService),
		Assets:        handlers.NewAssetHandler(assetService),
		Events:        handlers.NewWebSocketHandler(hub),
		Health:        handlers.NewHealthHandler(cfg.ServiceName, cfg.Version, healthChecks(db, projectCache, storage)),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Project service starting", slog.String("port", cfg.Port), slog.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newCache uses Redis when it is configured and an in-process cache otherwise.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Cache, error) {
	if cfg.RedisAddr() == "" {
		logger.Info("Redis is not configured, using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Redis cache connected", slog.String("addr", cfg.RedisAddr()))
	return redisCache, nil
}

func healthChecks(db *gorm.DB, c cache.Cache, storage services.ObjectStorage) map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error { return database.Ping(db) },
		"cache":    c.Ping,
	}
	if storage != nil {
		checks["storage"] = storage.Ping
	}
	return checks
}
