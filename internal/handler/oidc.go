package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

const oidcStateCookie = "oidc_state"

type OIDCHandler struct {
	svc  *service.OIDCService
	auth *service.AuthService
}

func NewOIDCHandler(svc *service.OIDCService, auth *service.AuthService) *OIDCHandler {
	return &OIDCHandler{svc: svc, auth: auth}
}

// Start godoc
// @Summary Begin the OIDC SSO login flow
// @Tags auth
// @Success 302
// @Router /api/v1/auth/oidc/start [get]
func (h *OIDCHandler) Start(c *gin.Context) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	state := hex.EncodeToString(raw)

	cfg := h.auth.CookieConfig()
	// Lax, not Strict: the provider redirect is a cross-site navigation and
	// the state cookie has to survive it.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oidcStateCookie, state, 600, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.Redirect(http.StatusFound, h.svc.AuthURL(state))
}

// Callback godoc
// @Summary Complete the OIDC SSO login flow
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State echoed by the provider"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/oidc/callback [get]
func (h *OIDCHandler) Callback(c *gin.Context) {
	stateCookie, err := c.Cookie(oidcStateCookie)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	cfg := h.auth.CookieConfig()
	c.SetCookie(oidcStateCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)

	user, session, err := h.svc.HandleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.SetSameSite(cfg.SameSite)
	c.SetCookie(service.RefreshCookieName, session.RefreshToken, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(service.CSRFCookieName, session.CSRFToken, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, false)

	c.JSON(http.StatusOK, model.AuthResponse{
		User:        user.Public(),
		AccessToken: session.AccessToken,
		ExpiresIn:   session.ExpiresIn,
	})
}
