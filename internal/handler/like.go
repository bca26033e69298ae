package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type LikeHandler struct {
	svc *service.LikeService
}

func NewLikeHandler(svc *service.LikeService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// Toggle godoc
// @Summary Toggle a like on a video, comment or tweet
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Target kind" Enums(video, comment, tweet)
// @Param id path string true "Target id"
// @Success 200 {object} model.ToggleLikeResponse
// @Router /api/v1/likes/{kind}/{id} [post]
func (h *LikeHandler) Toggle(c *gin.Context) {
	liked, err := h.svc.Toggle(c.Request.Context(), GetAuthUser(c).ID, c.Param("kind"), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ToggleLikeResponse{Liked: liked})
}

// LikedVideos godoc
// @Summary List videos the current user liked
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Video
// @Router /api/v1/likes/videos [get]
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	videos, err := h.svc.LikedVideos(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}
