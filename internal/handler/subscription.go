package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type SubscriptionHandler struct {
	svc *service.SubscriptionService
}

func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Toggle godoc
// @Summary Subscribe to or unsubscribe from a channel
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param channelId path string true "Channel user id"
// @Success 200 {object} model.ToggleSubscriptionResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/subscriptions/{channelId} [post]
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	subscribed, err := h.svc.Toggle(c.Request.Context(), GetAuthUser(c).ID, c.Param("channelId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ToggleSubscriptionResponse{Subscribed: subscribed})
}

// Subscribers godoc
// @Summary List a channel's subscribers
// @Tags subscriptions
// @Produce json
// @Param channelId path string true "Channel user id"
// @Success 200 {array} model.PublicUser
// @Router /api/v1/subscriptions/{channelId}/subscribers [get]
func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	users, err := h.svc.Subscribers(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Subscribed godoc
// @Summary List channels the current user subscribes to
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PublicUser
// @Router /api/v1/subscriptions [get]
func (h *SubscriptionHandler) Subscribed(c *gin.Context) {
	users, err := h.svc.SubscribedChannels(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
