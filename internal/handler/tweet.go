package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type TweetHandler struct {
	svc *service.TweetService
}

func NewTweetHandler(svc *service.TweetService) *TweetHandler {
	return &TweetHandler{svc: svc}
}

// Create godoc
// @Summary Post a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.TweetRequest true "Tweet content"
// @Success 201 {object} model.Tweet
// @Router /api/v1/tweets [post]
func (h *TweetHandler) Create(c *gin.Context) {
	var req model.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tweet, err := h.svc.Create(c.Request.Context(), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tweet)
}

// ListByUser godoc
// @Summary List a user's tweets
// @Tags tweets
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {array} model.Tweet
// @Router /api/v1/tweets/user/{userId} [get]
func (h *TweetHandler) ListByUser(c *gin.Context) {
	tweets, err := h.svc.ListByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tweets)
}

// Update godoc
// @Summary Update own tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tweet id"
// @Param request body model.TweetRequest true "New content"
// @Success 200 {object} model.Tweet
// @Router /api/v1/tweets/{id} [patch]
func (h *TweetHandler) Update(c *gin.Context) {
	var req model.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tweet, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tweet)
}

// Delete godoc
// @Summary Delete a tweet
// @Tags tweets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tweet id"
// @Success 200 {object} model.StatusResponse
// @Router /api/v1/tweets/{id} [delete]
func (h *TweetHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), user.ID, user.Role == model.RoleAdmin); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}
