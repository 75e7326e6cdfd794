package routes

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"projecthub-backend/project-service/handlers"
	"projecthub-backend/project-service/middleware"
	"projecthub-backend/shared/config"
)

// Dependencies are the wired components the router mounts.
type Dependencies struct {
	Config        *config.Config
	Logger        *slog.Logger
	Authenticator *middleware.Authenticator
	RateLimiter   *middleware.RateLimiter
	AuditRecorder *middleware.AuditRecorder

	Projects      *handlers.ProjectHandler
	Organizations *handlers.OrganizationHandler
	Assets        *handlers.AssetHandler
	Events        *handlers.WebSocketHandler
	Health        *handlers.HealthHandler
}

// NewRouter builds the gin engine with the global middleware chain and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.APIKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}
	if deps.AuditRecorder != nil {
		router.Use(deps.AuditRecorder.Middleware())
	}

	router.GET("/health", deps.Health.Readiness)

	if !cfg.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authenticated := []gin.HandlerFunc{
		deps.Authenticator.RequireSession(),
		middleware.RequireOrganization(),
	}

	router.GET("/ws/projects", append(authenticated, deps.Events.ProjectEvents)...)

	api := router.Group("/api")
	{
		api.GET("/health", deps.Health.Liveness)

		// Public URLs returned by uploads point here, so no session is required.
		api.GET("/assets/raw/:key", deps.Assets.ServeAsset)

		protected := api.Group("")
		protected.Use(authenticated...)

		projects := protected.Group("/projects")
		{
			projects.GET("", deps.Projects.ListProjects)
			projects.GET("/:id", deps.Projects.GetProject)
			projects.POST("", deps.Projects.CreateProject)
			projects.PUT("/:id", deps.Projects.UpdateProject)
			projects.DELETE("/:id", deps.Projects.DeleteProject)
		}

		organization := protected.Group("/organization")
		{
			organization.GET("", deps.Organizations.GetOrganization)
			organization.PUT("", deps.Organizations.UpdateOrganization)
			organization.GET("/members", deps.Organizations.ListMembers)
		}

		assets := protected.Group("/assets")
		{
			assets.GET("", deps.Assets.ListAssets)
			assets.POST("", deps.Assets.CreateAsset)
			assets.POST("/upload", deps.Assets.UploadAsset)
			assets.POST("/batch-delete", deps.Assets.BatchDeleteAssets)
			assets.PATCH("/:id", deps.Assets.UpdateAssetTags)
			assets.DELETE("/:id", deps.Assets.DeleteAsset)
		}
	}

	return router
}
