package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Add godoc
// @Summary Comment on a video
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video id"
// @Param request body model.CommentRequest true "Comment content"
// @Success 201 {object} model.Comment
// @Router /api/v1/videos/{id}/comments [post]
func (h *CommentHandler) Add(c *gin.Context) {
	var req model.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.svc.Add(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByVideo godoc
// @Summary List a video's comments
// @Tags comments
// @Produce json
// @Param id path string true "Video id"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} model.Page[model.Comment]
// @Router /api/v1/videos/{id}/comments [get]
func (h *CommentHandler) ListByVideo(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.svc.ListByVideo(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary Update own comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment id"
// @Param request body model.CommentRequest true "New content"
// @Success 200 {object} model.Comment
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/comments/{id} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	var req model.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment id"
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), user.ID, user.Role == model.RoleAdmin); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}
