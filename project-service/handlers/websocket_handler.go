package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"projecthub-backend/project-service/middleware"
	"projecthub-backend/project-service/services"
)

type WebSocketHandler struct {
	hub *services.EventHub
}

func NewWebSocketHandler(hub *services.EventHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ProjectEvents upgrades the connection and streams project events
// @Summary Subscribe to project events
// @Description Upgrades to a WebSocket that receives project.created, project.updated and project.deleted events for the active organization
// @Tags events
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} middleware.UnifiedResponse
// @Router /ws/projects [get]
func (h *WebSocketHandler) ProjectEvents(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	// The upgrader has already written the failure response.
	if err := h.hub.Serve(c.Writer, c.Request, actor); err != nil {
		middleware.LoggerFrom(c).Warn("WebSocket upgrade failed", slog.Any("error", err))
	}
}
