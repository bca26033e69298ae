package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type PlaylistHandler struct {
	svc *service.PlaylistService
}

func NewPlaylistHandler(svc *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

// Create godoc
// @Summary Create a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PlaylistRequest true "Playlist details"
// @Success 201 {object} model.Playlist
// @Router /api/v1/playlists [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req model.PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	playlist, err := h.svc.Create(c.Request.Context(), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, playlist)
}

// Get godoc
// @Summary Get a playlist by id
// @Tags playlists
// @Produce json
// @Param id path string true "Playlist id"
// @Success 200 {object} model.Playlist
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/playlists/{id} [get]
func (h *PlaylistHandler) Get(c *gin.Context) {
	playlist, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// ListMine godoc
// @Summary List the current user's playlists
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Playlist
// @Router /api/v1/playlists [get]
func (h *PlaylistHandler) ListMine(c *gin.Context) {
	playlists, err := h.svc.ListByOwner(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlists)
}

// Update godoc
// @Summary Update own playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist id"
// @Param request body model.PlaylistRequest true "Fields to update"
// @Success 200 {object} model.Playlist
// @Router /api/v1/playlists/{id} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	var req model.PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	playlist, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

// Delete godoc
// @Summary Delete own playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist id"
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/playlists/{id} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}

// AddVideo godoc
// @Summary Add a video to own playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist id"
// @Param videoId path string true "Video id"
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/playlists/{id}/videos/{videoId} [post]
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	if err := h.svc.AddVideo(c.Request.Context(), c.Param("id"), c.Param("videoId"), GetAuthUser(c).ID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "added"})
}

// RemoveVideo godoc
// @Summary Remove a video from own playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist id"
// @Param videoId path string true "Video id"
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/playlists/{id}/videos/{videoId} [delete]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	if err := h.svc.RemoveVideo(c.Request.Context(), c.Param("id"), c.Param("videoId"), GetAuthUser(c).ID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "removed"})
}
