// internal/interfaces/http/handlers/alerts.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
)

type AlertHandler struct {
	alerts *notification.Service
}

func NewAlertHandler(alerts *notification.Service) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// GetAlerts handles GET /alerts and drains the session's toasts
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.alerts.Pending(middleware.GetSessionID(c)),
	})
}
