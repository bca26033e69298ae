package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/password [patch]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), GetAuthUser(c).ID, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "password_changed"})
}

// UpdateAccount godoc
// @Summary Update the current user's account details
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/users/me [patch]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.UpdateAccount(c.Request.Context(), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// ChannelProfile godoc
// @Summary Get a channel's public profile
// @Tags users
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} model.ChannelProfile
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/channel/{username} [get]
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	viewerID := ""
	if user := GetAuthUser(c); user != nil {
		viewerID = user.ID
	}

	profile, err := h.svc.GetChannelProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// WatchHistory godoc
// @Summary Get the current user's watch history
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.WatchHistoryEntry
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/history [get]
func (h *UserHandler) WatchHistory(c *gin.Context) {
	history, err := h.svc.GetWatchHistory(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
