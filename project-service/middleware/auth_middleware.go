package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"projecthub-backend/project-service/services"
	"projecthub-backend/shared/database"
	"projecthub-backend/shared/database/models"
	"projecthub-backend/shared/utils/apperror"
	utils "projecthub-backend/shared/utils/auth"
)

const (
	APIKeyHeader = "X-API-Key"

	sessionKey = "session"
)

type AuthMethod string

const (
	AuthMethodJWT    AuthMethod = "jwt"
	AuthMethodCookie AuthMethod = "cookie"
	AuthMethodAPIKey AuthMethod = "api_key"
)

// Session is the authenticated identity attached to a request.
type Session struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Method         AuthMethod
}

// Actor converts the session into the service-layer caller.
func (s Session) Actor() services.Actor {
	return services.Actor{UserID: s.UserID, OrganizationID: s.OrganizationID}
}

// APIKeyStore is satisfied by *database.APIKeyStore.
type APIKeyStore interface {
	FindActiveByPrefix(ctx context.Context, prefix string) (*models.APIKey, error)
	TouchLastUsed(ctx context.Context, key *models.APIKey) error
}

// Authenticator resolves sessions from a bearer token, the session cookie or an API key.
type Authenticator struct {
	jwtSecret  string
	cookieName string
	apiKeys    APIKeyStore
}

func NewAuthenticator(jwtSecret, cookieName string, apiKeys APIKeyStore) *Authenticator {
	return &Authenticator{jwtSecret: jwtSecret, cookieName: cookieName, apiKeys: apiKeys}
}

// RequireSession rejects requests without a valid session.
func (a *Authenticator) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := a.authenticate(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireOrganization rejects sessions that have no active organization.
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			AbortWithError(c, apperror.Unauthorized("Authentication required"))
			return
		}
		if session.OrganizationID == uuid.Nil {
			AbortWithError(c, apperror.New(apperror.CodeForbidden, http.StatusForbidden, "No active organization"))
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(c *gin.Context) (Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	session, ok := value.(Session)
	return session, ok
}

func (a *Authenticator) authenticate(c *gin.Context) (Session, error) {
	if key := c.GetHeader(APIKeyHeader); key != "" {
		return a.authenticateAPIKey(c, key)
	}

	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") || tokenParts[1] == "" {
			return Session{}, apperror.Unauthorized("Invalid authorization format. Expected Bearer {token}")
		}
		return a.authenticateToken(tokenParts[1], AuthMethodJWT)
	}

	if a.cookieName != "" {
		if token, err := c.Cookie(a.cookieName); err == nil && token != "" {
			return a.authenticateToken(token, AuthMethodCookie)
		}
	}

	return Session{}, apperror.Unauthorized("Authentication required")
}

func (a *Authenticator) authenticateToken(token string, method AuthMethod) (Session, error) {
	claims, err := utils.ValidateJWT(a.jwtSecret, token)
	if err != nil {
		return Session{}, apperror.Unauthorized("Invalid or expired token")
	}

	userID, err := claims.UserUUID()
	if err != nil || userID == uuid.Nil {
		return Session{}, apperror.Unauthorized("Invalid user ID in token")
	}

	orgID, err := claims.OrganizationUUID()
	if err != nil {
		return Session{}, apperror.Unauthorized("Invalid organization ID in token")
	}

	return Session{UserID: userID, OrganizationID: orgID, Method: method}, nil
}

func (a *Authenticator) authenticateAPIKey(c *gin.Context, key string) (Session, error) {
	if a.apiKeys == nil {
		return Session{}, apperror.Unauthorized("API keys are not accepted")
	}

	prefix, err := utils.SplitAPIKey(key)
	if err != nil {
		return Session{}, apperror.Unauthorized("Invalid API key")
	}

	ctx := c.Request.Context()
	record, err := a.apiKeys.FindActiveByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Session{}, apperror.Unauthorized("Invalid API key")
		}
		return Session{}, err
	}

	if !utils.CheckPassword(record.KeyHash, key) {
		return Session{}, apperror.Unauthorized("Invalid API key")
	}

	if err := a.apiKeys.TouchLastUsed(ctx, record); err != nil {
		LoggerFrom(c).WarnContext(ctx, "Failed to record API key usage",
			slog.String("prefix", prefix), slog.Any("error", err))
	}

	return Session{UserID: record.UserID, OrganizationID: record.OrganizationID, Method: AuthMethodAPIKey}, nil
}
