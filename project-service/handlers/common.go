package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"projecthub-backend/project-service/middleware"
	"projecthub-backend/project-service/services"
	"projecthub-backend/shared/utils/apperror"
)

// SuccessResponse is the envelope returned by endpoints with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CountResponse reports how many rows a batch operation touched.
type CountResponse struct {
	Count int `json:"count"`
}

// actorFrom returns the caller stored by the auth middleware.
func actorFrom(c *gin.Context) (services.Actor, bool) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		middleware.RespondError(c, apperror.Unauthorized("Authentication required"))
		return services.Actor{}, false
	}
	return session.Actor(), true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middleware.RespondError(c, apperror.Validation("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		middleware.RespondError(c, apperror.Validation(err.Error(), err))
		return false
	}
	return true
}
