package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "New account details"
// @Success 201 {object} model.PublicUser
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.Public())
}

// Login godoc
// @Summary Login with username or email
// @Description Sets the refresh token in an http-only cookie and a CSRF token
// @Description in a readable cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, session, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusOK, model.AuthResponse{
		User:        user.Public(),
		AccessToken: session.AccessToken,
		ExpiresIn:   session.ExpiresIn,
	})
}

// Refresh godoc
// @Summary Rotate the refresh token and mint a new access token
// @Description Requires the refresh cookie and, unless disabled, the CSRF
// @Description header matching the CSRF cookie. The consumed refresh token is
// @Description invalidated even though its expiry has not elapsed.
// @Tags auth
// @Produce json
// @Success 200 {object} model.RefreshResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	// CSRF first: a cross-site request dies before any token or store work.
	if h.svc.CSRFRequiredOnRefresh() {
		csrfCookie, _ := c.Cookie(service.CSRFCookieName)
		if err := h.svc.CheckCSRF(c.GetHeader(h.svc.CSRFHeader()), csrfCookie); err != nil {
			writeServiceError(c, err)
			return
		}
	}

	refreshToken, _ := c.Cookie(service.RefreshCookieName)
	session, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusOK, model.RefreshResponse{
		AccessToken: session.AccessToken,
		ExpiresIn:   session.ExpiresIn,
	})
}

// Logout godoc
// @Summary Logout
// @Description Clears the stored refresh session and both cookies. Succeeds
// @Description with no cookie, an expired cookie, or an already-rotated one.
// @Tags auth
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	currentUserID := ""
	if user := GetAuthUser(c); user != nil {
		currentUserID = user.ID
	}

	refreshToken, _ := c.Cookie(service.RefreshCookieName)
	if err := h.svc.Logout(c.Request.Context(), refreshToken, currentUserID); err != nil {
		writeServiceError(c, err)
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, model.StatusResponse{Status: "logged_out"})
}

// Me godoc
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, model.PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, session *service.Session) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(service.RefreshCookieName, session.RefreshToken, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(service.CSRFCookieName, session.CSRFToken, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, false)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(service.RefreshCookieName, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(service.CSRFCookieName, "", -1, cfg.Path, cfg.Domain, cfg.Secure, false)
}
