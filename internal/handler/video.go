package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Publish godoc
// @Summary Publish a video
// @Tags videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PublishVideoRequest true "Video metadata"
// @Success 201 {object} model.Video
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/videos [post]
func (h *VideoHandler) Publish(c *gin.Context) {
	var req model.PublishVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	video, err := h.svc.Publish(c.Request.Context(), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// Get godoc
// @Summary Get a video by id
// @Tags videos
// @Produce json
// @Param id path string true "Video id"
// @Success 200 {object} model.Video
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	viewerID := ""
	if user := GetAuthUser(c); user != nil {
		viewerID = user.ID
	}

	video, err := h.svc.Get(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// List godoc
// @Summary List published videos
// @Tags videos
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param owner query string false "Filter by owner id"
// @Param search query string false "Title/description search"
// @Success 200 {object} model.Page[model.Video]
// @Router /api/v1/videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.svc.List(c.Request.Context(), model.VideoListQuery{
		Page:    page,
		Limit:   limit,
		OwnerID: c.Query("owner"),
		Search:  c.Query("search"),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary Update own video metadata
// @Tags videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video id"
// @Param request body model.UpdateVideoRequest true "Fields to update"
// @Success 200 {object} model.Video
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/videos/{id} [patch]
func (h *VideoHandler) Update(c *gin.Context) {
	var req model.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	video, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// TogglePublish godoc
// @Summary Toggle a video's publish status
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video id"
// @Success 200 {object} model.Video
// @Router /api/v1/videos/{id}/toggle-publish [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	video, err := h.svc.TogglePublish(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// Delete godoc
// @Summary Delete a video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video id"
// @Success 200 {object} model.StatusResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), user.ID, user.Role == model.RoleAdmin); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}
