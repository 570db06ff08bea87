package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/utils"
)

// AdminKeyHeader carries the shared admin key on API requests.
const AdminKeyHeader = "X-Admin-Key"

// Context keys set by the admin middlewares.
const (
	CtxAdminSession   = "adminSession"
	CtxSessionExpired = "sessionExpired"
)

// AdminKeyMiddleware rejects requests whose X-Admin-Key does not match the
// configured secret. A missing header, a wrong key and an unset secret all
// produce the same 401 body.
func AdminKeyMiddleware(cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.CheckAdminKey(cfg.Secret, c.GetHeader(AdminKeyHeader)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
			return
		}
		c.Next()
	}
}

// AdminSessionMiddleware reads the admin session cookie and records in the
// context whether it is valid. It never aborts: pages decide between the
// login form and the admin view.
func AdminSessionMiddleware(cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(utils.SessionCookie)
		if err != nil || token == "" {
			c.Set(CtxAdminSession, false)
			c.Next()
			return
		}
		if _, err := utils.ValidateToken(token, cfg.SigningKey()); err != nil {
			utils.ClearSessionCookie(c)
			c.Set(CtxAdminSession, false)
			c.Set(CtxSessionExpired, true)
			c.Next()
			return
		}
		c.Set(CtxAdminSession, true)
		c.Next()
	}
}
