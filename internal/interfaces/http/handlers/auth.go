// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/user"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
)

// AuthHandler handles login, logout and the current profile
type AuthHandler struct {
	responder
	userService *user.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service, alerts *notification.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{alerts: alerts, logger: logger},
		userService: userService,
	}
}

// LoginPage handles GET /login. The message set by a session expiry
// redirect is echoed back for display.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	// nil when nobody is logged in
	profile, _ := h.userService.Me(c.Request.Context(), middleware.GetSessionID(c))

	c.JSON(http.StatusOK, gin.H{
		"mensagem": c.Query("mensagem"),
		"data":     profile,
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.userService.Login(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.fail(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login realizado com sucesso",
		"data":     profile,
		"redirect": "/",
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	if err := h.userService.Logout(c.Request.Context(), sid); err != nil {
		h.fail(c, err, "Logout failed")
		return
	}
	h.alerts.Drop(sid)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logout realizado com sucesso",
		"redirect": middleware.LoginURL,
	})
}

// Me handles GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.userService.Me(c.Request.Context(), middleware.GetSessionID(c))
	if errors.Is(err, user.ErrNotLoggedIn) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    err.Error(),
			"redirect": middleware.LoginURL,
		})
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": profile,
	})
}
