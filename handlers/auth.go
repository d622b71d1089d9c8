package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArmaanM08/WikiDoCollab/internal/config"
	"github.com/ArmaanM08/WikiDoCollab/internal/sessions"
	"github.com/ArmaanM08/WikiDoCollab/internal/tokens"
	"github.com/ArmaanM08/WikiDoCollab/internal/users"
	"github.com/ArmaanM08/WikiDoCollab/pkg/apperr"
	"github.com/ArmaanM08/WikiDoCollab/pkg/logger"
	"github.com/ArmaanM08/WikiDoCollab/pkg/middleware"
)

const refreshCookie = "refresh_token"

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", h.Signup)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)

	auth := middleware.RequireAuth(h.cfg.JWT.Secret)
	a.GET("/me", auth, h.Me)
	a.PATCH("/profile", auth, h.UpdateProfile)
}

// Signup creates a new account from email and password credentials.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email})
}

// Login verifies credentials, opens a refresh session and returns an access
// token. The refresh token travels only in an HTTP-only cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.ID, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		fail(c, apperr.Internal())
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg.JWT.Secret, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		fail(c, apperr.Internal())
		return
	}
	h.setRefreshCookie(c, rft, int(h.cfg.JWT.RefreshTokenTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"token": access})
}

// Me returns the caller's own profile.
func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	u, err := h.usersSvc.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	if u == nil {
		fail(c, apperr.Unauthorized(""))
		return
	}
	c.JSON(http.StatusOK, u)
}

// Refresh exchanges a valid refresh cookie for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	rft, err := c.Cookie(refreshCookie)
	if err != nil || rft == "" {
		fail(c, apperr.Unauthorized("missing refresh token"))
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), rft)
	if err != nil {
		logger.Errorf("refresh validation failed: %v", err)
		fail(c, apperr.Internal())
		return
	}
	if sess == nil {
		fail(c, apperr.Unauthorized("invalid refresh token"))
		return
	}
	u, err := h.usersSvc.GetByID(c.Request.Context(), sess.UserID)
	if err != nil || u == nil {
		fail(c, apperr.Unauthorized("invalid refresh token"))
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg.JWT.Secret, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		fail(c, apperr.Internal())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": access})
}

// Logout deletes the refresh session and clears the cookie. Always succeeds
// from the client's point of view, even without a cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if rft, err := c.Cookie(refreshCookie); err == nil && rft != "" {
		if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), rft); err != nil {
			logger.Warnf("failed to remove session on logout: %v", err)
		}
	}
	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdateProfile changes the caller's display name.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := middleware.IdentityFrom(c)
	u, err := h.usersSvc.UpdateDisplayName(c.Request.Context(), id.UserID, req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	secure := h.cfg.Server.Environment == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, value, maxAge, "/", "", secure, true)
}
