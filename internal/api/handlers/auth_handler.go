package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/services"
	"github.com/demandhub/backend/internal/util"
)

type AuthHandler struct {
	authService *services.AuthService
	audit       *services.AuditService
	secure      bool
}

// NewAuthHandler wires auth routes. secure marks the session cookie
// HTTPS-only.
func NewAuthHandler(authService *services.AuthService, audit *services.AuditService, secure bool) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit, secure: secure}
}

// setSessionCookie sets the auth cookie HttpOnly and SameSite=Strict.
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookie, value, maxAge, "/", "", h.secure, true)
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req.Username, req.Password, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), user.DisplayName(), models.ActionRegister, "Novo usuário registrado no sistema")
	h.setSessionCookie(c, token, 86400)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		middleware.GetRequestLogger(c).WithField("username", util.SanitizeForLog(req.Username)).Info("Login rejected")
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), user.DisplayName(), models.ActionLogin, "Acesso ao sistema realizado")
	h.setSessionCookie(c, token, 86400)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.audit.Record(c.Request.Context(), currentUser(c), models.ActionLogout, "Saída do sistema")
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, _ := c.Get(middleware.UserIDKey)
	uid, _ := id.(uint)
	user, err := h.authService.GetUserByID(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
