package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projecthub-backend/project-service/middleware"
	"projecthub-backend/project-service/services"
)

type OrganizationHandler struct {
	service *services.OrganizationService
}

func NewOrganizationHandler(service *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// GetOrganization returns the caller's active organization
// @Summary Get active organization
// @Tags organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=models.Organization}
// @Failure 403 {object} middleware.UnifiedResponse
// @Router /organization [get]
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	org, err := h.service.Get(c.Request.Context(), actor)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "", org)
}

// UpdateOrganization changes the name or slug of the active organization
// @Summary Update active organization
// @Tags organization
// @Accept json
// @Produce json
// @Param organization body services.UpdateOrganizationInput true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=models.Organization}
// @Failure 400 {object} middleware.UnifiedResponse
// @Failure 403 {object} middleware.UnifiedResponse
// @Failure 409 {object} middleware.UnifiedResponse
// @Router /organization [put]
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var in services.UpdateOrganizationInput
	if !bindJSON(c, &in) {
		return
	}

	org, err := h.service.Update(c.Request.Context(), actor, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "Organization updated successfully", org)
}

// ListMembers returns the members of the active organization
// @Summary List organization members
// @Tags organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=[]services.MemberView}
// @Failure 403 {object} middleware.UnifiedResponse
// @Router /organization/members [get]
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), actor)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "", members)
}
