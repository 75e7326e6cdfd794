// Package docs holds the OpenAPI description served at /swagger.
package docs

// @title ProjectHub API
// @version 1.0
// @description Multi-tenant project management API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@projecthub.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// @tag.name projects
// @tag.description Project management
// @tag.name organization
// @tag.description Active organization settings
// @tag.name assets
// @tag.description File uploads and asset metadata
// @tag.name events
// @tag.description Realtime project events
// @tag.name health
// @tag.description Service health
