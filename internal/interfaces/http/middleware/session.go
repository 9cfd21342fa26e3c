// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/config"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
)

const sessionIDKey = "session_id"

// Session makes sure every request carries a session ID cookie and puts
// the ID on the request context for the backend client.
func Session(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Session.CookieName, sid, 0, "/", "", cfg.Session.SecureCookie, true)
		}

		c.Set(sessionIDKey, sid)
		c.Request = c.Request.WithContext(session.WithID(c.Request.Context(), sid))

		c.Next()
	}
}

// GetSessionID returns the session ID set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
