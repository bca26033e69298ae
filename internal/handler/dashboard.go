package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats godoc
// @Summary Get the current user's channel stats
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ChannelStats
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.ChannelStats(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Videos godoc
// @Summary List the current user's videos, including unpublished
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Video
// @Router /api/v1/dashboard/videos [get]
func (h *DashboardHandler) Videos(c *gin.Context) {
	videos, err := h.svc.ChannelVideos(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}
