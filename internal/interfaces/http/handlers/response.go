// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/backend"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
)

// responder turns backend failures into HTTP answers and error toasts
type responder struct {
	alerts *notification.Service
	logger *logrus.Logger
}

// fail answers err. An expired session always ends in a redirect to the
// login page, whatever the handler was doing.
func (r responder) fail(c *gin.Context, err error, action string) {
	sid := middleware.GetSessionID(c)
	_ = c.Error(err)

	if expired, ok := backend.IsSessionExpired(err); ok {
		middleware.Redirect(c, http.StatusUnauthorized, expired.RedirectURL, "Token expirado!")
		return
	}

	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		r.logger.WithError(err).WithField("session_id", sid).Error(action)
	}

	r.alerts.Error(sid, message)
	c.JSON(status, gin.H{
		"error": message,
	})
}

// classify maps err to a status and the message shown to the user
func classify(err error) (int, string) {
	var apiErr *backend.APIError
	var malformed *backend.MalformedResponseError

	switch {
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		return status, fmt.Sprintf("Servidor respondeu mas com o erro:%s", apiErr.Message)
	case backend.IsNetworkError(err):
		return http.StatusBadGateway, fmt.Sprintf("Servidor não respondeu, você ligou o backend? Erro: %v", err)
	case errors.As(err, &malformed):
		return http.StatusBadGateway, "Resposta inválida do servidor"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Dados inválidos",
		"details": err.Error(),
	})
}
