// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
)

// LoginURL is where anonymous and non-admin users are sent
const LoginURL = "/login"

// AdminOnly lets through sessions whose role is ADMIN. This only gates
// navigation; the backend enforces authorization on every call.
func AdminOnly(store session.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, ok := loadCredential(c, store, logger)
		if !ok {
			Redirect(c, http.StatusUnauthorized, LoginURL, "Você precisa estar logado")
			return
		}
		if !cred.IsAdmin() {
			Redirect(c, http.StatusForbidden, LoginURL, "Acesso restrito a administradores")
			return
		}

		c.Next()
	}
}

func loadCredential(c *gin.Context, store session.Store, logger *logrus.Logger) (*session.Credential, bool) {
	cred, err := store.Get(c.Request.Context(), GetSessionID(c))
	if err != nil {
		if !errors.Is(err, session.ErrNoCredential) {
			logger.WithError(err).WithField("session_id", GetSessionID(c)).Error("Failed to read session credential")
		}
		return nil, false
	}
	return cred, true
}

// WantsJSON reports whether the client asked for JSON instead of navigation
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// Redirect sends browsers to location with a 302. JSON clients get status
// with the destination in the body so they can navigate themselves.
func Redirect(c *gin.Context, status int, location, message string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{
			"error":    message,
			"redirect": location,
		})
		return
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
