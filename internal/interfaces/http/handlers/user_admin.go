// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/user"
)

// UserAdminHandler handles the admin dashboard endpoints
type UserAdminHandler struct {
	responder
	adminService *user.AdminService
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(adminService *user.AdminService, alerts *notification.Service, logger *logrus.Logger) *UserAdminHandler {
	return &UserAdminHandler{
		responder:    responder{alerts: alerts, logger: logger},
		adminService: adminService,
	}
}

// GetDashboard handles GET /admin
func (h *UserAdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Erro ao carregar dados")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": dashboard,
	})
}

// DeleteUser handles DELETE /admin/usuario/:id
func (h *UserAdminHandler) DeleteUser(c *gin.Context) {
	if err := h.adminService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Erro ao remover usuário")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Usuário removido",
	})
}

// DeleteCart handles DELETE /admin/carrinho/:id
func (h *UserAdminHandler) DeleteCart(c *gin.Context) {
	if err := h.adminService.DeleteCart(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Erro ao remover carrinho")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Carrinho removido",
	})
}

// ExportUsers handles GET /admin/usuarios/export
func (h *UserAdminHandler) ExportUsers(c *gin.Context) {
	var req user.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	data, filename, err := h.adminService.ExportUsers(c.Request.Context(), req)
	if errors.Is(err, user.ErrUnsupportedFormat) {
		badRequest(c, err)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to export users")
		return
	}

	var contentType string
	switch strings.ToLower(req.Format) {
	case "csv":
		contentType = "text/csv"
	case "json":
		contentType = "application/json"
	default:
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, contentType, data)
}
