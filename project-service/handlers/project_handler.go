package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projecthub-backend/project-service/middleware"
	"projecthub-backend/project-service/services"
	"projecthub-backend/shared/utils/apperror"
)

// ProjectHandler exposes project CRUD for the caller's active organization.
type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// ListProjects returns one page of active projects
// @Summary List projects
// @Description List active projects of the active organization, newest first
// @Tags projects
// @Produce json
// @Param search query string false "Case-insensitive match on name or description"
// @Param status query string false "Filter by status (planning, active, on_hold, completed, cancelled)"
// @Param limit query int false "Page size (default: 50, max: 200)"
// @Param offset query int false "Rows to skip"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=services.ProjectList}
// @Failure 400 {object} middleware.UnifiedResponse
// @Failure 401 {object} middleware.UnifiedResponse
// @Failure 403 {object} middleware.UnifiedResponse
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var in services.ListProjectsInput
	if err := c.ShouldBindQuery(&in); err != nil {
		middleware.RespondError(c, apperror.Validation("Invalid query parameters", err))
		return
	}

	list, err := h.service.List(c.Request.Context(), actor, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "", list)
}

// GetProject returns a single active project
// @Summary Get project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=models.Project}
// @Failure 404 {object} middleware.UnifiedResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "", project)
}

// CreateProject creates a project in the active organization
// @Summary Create project
// @Description Setting projectManagerId also requires projects:assign
// @Tags projects
// @Accept json
// @Produce json
// @Param project body services.CreateProjectInput true "Project"
// @Security BearerAuth
// @Success 201 {object} middleware.UnifiedResponse{data=models.Project}
// @Failure 400 {object} middleware.UnifiedResponse
// @Failure 403 {object} middleware.UnifiedResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var in services.CreateProjectInput
	if !bindJSON(c, &in) {
		return
	}

	project, err := h.service.Create(c.Request.Context(), actor, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusCreated, "Project created successfully", project)
}

// UpdateProject changes the fields present in the body
// @Summary Update project
// @Description Changing projectManagerId also requires projects:assign
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body services.UpdateProjectInput true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=models.Project}
// @Failure 400 {object} middleware.UnifiedResponse
// @Failure 403 {object} middleware.UnifiedResponse
// @Failure 404 {object} middleware.UnifiedResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var in services.UpdateProjectInput
	if !bindJSON(c, &in) {
		return
	}

	project, err := h.service.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "Project updated successfully", project)
}

// DeleteProject soft-deletes a project
// @Summary Delete project
// @Description The row is kept with isActive=false and disappears from listings
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=handlers.SuccessResponse}
// @Failure 403 {object} middleware.UnifiedResponse
// @Failure 404 {object} middleware.UnifiedResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "Project deleted successfully", SuccessResponse{Success: true})
}
