package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"projecthub-backend/project-service/middleware"
	"projecthub-backend/project-service/services"
	"projecthub-backend/shared/utils/apperror"
)

// UpdateTagsRequest replaces the tag list of an asset.
type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

// BatchDeleteRequest lists asset ids to delete.
type BatchDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type AssetHandler struct {
	service *services.AssetService
}

func NewAssetHandler(service *services.AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

// UploadAsset stores a file in object storage
// @Summary Upload file
// @Description Stores the multipart "file" field and returns its public URL. Register it with POST /assets.
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Security BearerAuth
// @Success 201 {object} middleware.UnifiedResponse{data=services.UploadResult}
// @Failure 400 {object} middleware.UnifiedResponse
// @Failure 503 {object} middleware.UnifiedResponse
// @Router /assets/upload [post]
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		middleware.RespondError(c, apperror.BadRequest("No file uploaded"))
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.RespondError(c, apperror.BadRequest("Unable to read uploaded file"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.service.Upload(c.Request.Context(), actor, header.Filename, contentType, header.Size, file)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusCreated, "File uploaded successfully", result)
}

// ServeAsset streams a stored object
// @Summary Download file
// @Tags assets
// @Produce octet-stream
// @Param key path string true "Object key"
// @Success 200 {file} binary
// @Failure 404 {object} middleware.UnifiedResponse
// @Router /assets/raw/{key} [get]
func (h *AssetHandler) ServeAsset(c *gin.Context) {
	body, info, err := h.service.Open(c.Request.Context(), c.Param("key"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	if info.ETag != "" {
		c.Header("ETag", `"`+info.ETag+`"`)
	}
	if info.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, body); err != nil {
		middleware.LoggerFrom(c).Warn("Asset stream interrupted", "key", c.Param("key"), "error", err)
	}
}

// ListAssets returns the caller's assets
// @Summary List assets
// @Description search matches name or any tag case-insensitively and wins over tag, which must match exactly
// @Tags assets
// @Produce json
// @Param search query string false "Search term"
// @Param tag query string false "Exact tag"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=[]models.Asset}
// @Router /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	assets, err := h.service.List(c.Request.Context(), actor, c.Query("search"), c.Query("tag"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "", assets)
}

// CreateAsset records asset metadata
// @Summary Create asset
// @Tags assets
// @Accept json
// @Produce json
// @Param asset body services.CreateAssetInput true "Asset"
// @Security BearerAuth
// @Success 201 {object} middleware.UnifiedResponse{data=models.Asset}
// @Failure 400 {object} middleware.UnifiedResponse
// @Router /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var in services.CreateAssetInput
	if !bindJSON(c, &in) {
		return
	}

	asset, err := h.service.Create(c.Request.Context(), actor, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusCreated, "Asset created successfully", asset)
}

// UpdateAssetTags replaces the tags of an asset
// @Summary Update asset tags
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param tags body handlers.UpdateTagsRequest true "Tags"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=models.Asset}
// @Failure 404 {object} middleware.UnifiedResponse
// @Router /assets/{id} [patch]
func (h *AssetHandler) UpdateAssetTags(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTagsRequest
	if !bindJSON(c, &req) {
		return
	}

	asset, err := h.service.UpdateTags(c.Request.Context(), actor, id, req.Tags)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "Asset updated successfully", asset)
}

// DeleteAsset removes an asset and its stored object
// @Summary Delete asset
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=handlers.SuccessResponse}
// @Failure 404 {object} middleware.UnifiedResponse
// @Router /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
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
	middleware.RespondOK(c, http.StatusOK, "Asset deleted successfully", SuccessResponse{Success: true})
}

// BatchDeleteAssets removes several assets at once
// @Summary Delete assets
// @Description Ids the caller does not own are ignored
// @Tags assets
// @Accept json
// @Produce json
// @Param ids body handlers.BatchDeleteRequest true "Asset ids"
// @Security BearerAuth
// @Success 200 {object} middleware.UnifiedResponse{data=handlers.CountResponse}
// @Failure 400 {object} middleware.UnifiedResponse
// @Router /assets/batch-delete [post]
func (h *AssetHandler) BatchDeleteAssets(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req BatchDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	count, err := h.service.BatchDelete(c.Request.Context(), actor, req.IDs)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	middleware.RespondOK(c, http.StatusOK, "Assets deleted successfully", CountResponse{Count: count})
}
